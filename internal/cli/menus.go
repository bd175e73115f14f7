package cli

import (
	"context"

	"github.com/ruralpay/cardledger/internal/models"
	"github.com/ruralpay/cardledger/internal/services"
)

func (c *Console) adminMenu(ctx context.Context, admin *models.User) error {
	for {
		c.println("\nAdmin Menu")
		c.println("1. Register User")
		c.println("2. View All Cards")
		c.println("3. View All Transactions")
		c.println("4. View Activity Logs")
		c.println("5. View Pending Requests")
		c.println("6. Process a Request")
		c.println("7. Post a Transaction")
		c.println("8. Delete a Card")
		c.println("9. Upgrade a Card")
		c.println("10. Logout")

		choice, err := c.prompt("Enter your choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = c.registerUser(ctx, admin)
		case "2":
			err = c.showAllCards(ctx)
		case "3":
			err = c.showAllTransactions(ctx)
		case "4":
			err = c.showActivityLogs(ctx)
		case "5":
			err = c.showPendingRequests(ctx)
		case "6":
			err = c.processRequest(ctx, admin)
		case "7":
			err = c.postTransaction(ctx, admin)
		case "8":
			err = c.deleteCard(ctx, admin)
		case "9":
			err = c.upgradeCard(ctx, admin)
		case "10":
			return nil
		default:
			c.println("Invalid choice.")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) userMenu(ctx context.Context, user *models.User) error {
	for {
		c.println("\nUser Menu")
		c.println("1. Create Card")
		c.println("2. View My Cards")
		c.println("3. Request Card Deletion")
		c.println("4. Request Card Upgrade")
		c.println("5. Post Transaction")
		c.println("6. View Transactions")
		c.println("7. View My Requests")
		c.println("8. Logout")

		choice, err := c.prompt("Enter your choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = c.createCard(ctx, user)
		case "2":
			err = c.showMyCards(ctx, user)
		case "3":
			err = c.requestDeletion(ctx, user)
		case "4":
			err = c.requestUpgrade(ctx, user)
		case "5":
			err = c.postTransaction(ctx, user)
		case "6":
			err = c.showTransactions(ctx)
		case "7":
			err = c.showMyRequests(ctx, user)
		case "8":
			return nil
		default:
			c.println("Invalid choice.")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) registerUser(ctx context.Context, admin *models.User) error {
	username, err := c.prompt("Enter username: ")
	if err != nil {
		return err
	}
	password, err := c.prompt("Enter password: ")
	if err != nil {
		return err
	}
	role, err := c.prompt("Enter role (admin/user): ")
	if err != nil {
		return err
	}

	in := services.RegisterInput{Username: username, Password: password, Role: role}
	if _, err := c.auth.Register(ctx, admin.UserID, in); err != nil {
		c.reportError(err)
		return nil
	}
	c.println("User registered successfully.")
	return nil
}

func (c *Console) createCard(ctx context.Context, user *models.User) error {
	c.println("Card Types: Premium, Gold, Silver")
	raw, err := c.prompt("Enter card type: ")
	if err != nil {
		return err
	}

	cardType, err := models.ParseCardType(raw)
	if err != nil {
		c.reportError(err)
		return nil
	}

	card, err := c.accounts.CreateCard(ctx, user.UserID, cardType)
	if err != nil {
		c.reportError(err)
		return nil
	}
	c.printf("Card %d created successfully. Expires %s.\n", card.CardID, card.ExpiryDate.Format(dateLayout))
	return nil
}

func (c *Console) requestDeletion(ctx context.Context, user *models.User) error {
	cardID, ok, err := c.promptID("Enter card ID to delete: ")
	if err != nil || !ok {
		return err
	}

	req, err := c.requests.Submit(ctx, user.UserID, cardID, models.RequestDelete, nil)
	if err != nil {
		c.reportError(err)
		return nil
	}
	c.printf("Deletion request %d submitted for approval.\n", req.RequestID)
	return nil
}

func (c *Console) requestUpgrade(ctx context.Context, user *models.User) error {
	cardID, ok, err := c.promptID("Enter card ID to upgrade: ")
	if err != nil || !ok {
		return err
	}
	raw, err := c.prompt("Enter new card type (Premium, Gold, Silver): ")
	if err != nil {
		return err
	}

	newType, err := models.ParseCardType(raw)
	if err != nil {
		c.reportError(err)
		return nil
	}

	req, err := c.requests.Submit(ctx, user.UserID, cardID, models.RequestUpgrade, &newType)
	if err != nil {
		c.reportError(err)
		return nil
	}
	c.printf("Upgrade request %d submitted for approval.\n", req.RequestID)
	return nil
}

func (c *Console) postTransaction(ctx context.Context, user *models.User) error {
	cardID, ok, err := c.promptID("Enter card ID for transaction: ")
	if err != nil || !ok {
		return err
	}
	rawAmount, err := c.prompt("Enter transaction amount: ")
	if err != nil {
		return err
	}
	rawType, err := c.prompt("Enter transaction type (Credit/Debit): ")
	if err != nil {
		return err
	}

	amount, err := services.ParseAmount(rawAmount)
	if err != nil {
		c.reportError(err)
		return nil
	}
	txType, err := models.ParseTransactionType(rawType)
	if err != nil {
		c.reportError(err)
		return nil
	}

	if _, err := c.accounts.PostTransaction(ctx, user.UserID, cardID, amount, txType); err != nil {
		c.reportError(err)
		return nil
	}
	c.println("Transaction successful.")
	return nil
}

func (c *Console) processRequest(ctx context.Context, admin *models.User) error {
	requestID, ok, err := c.promptID("Enter request ID: ")
	if err != nil || !ok {
		return err
	}
	decision, err := c.prompt("Accept or deny? ")
	if err != nil {
		return err
	}

	req, err := c.requests.Resolve(ctx, admin.UserID, requestID, decision)
	if err != nil {
		c.reportError(err)
		return nil
	}
	c.printf("Request %d %s.\n", req.RequestID, req.Status)
	return nil
}

func (c *Console) deleteCard(ctx context.Context, admin *models.User) error {
	cardID, ok, err := c.promptID("Enter card ID to delete: ")
	if err != nil || !ok {
		return err
	}

	if err := c.accounts.DeleteCard(ctx, admin.UserID, cardID); err != nil {
		c.reportError(err)
		return nil
	}
	c.println("Card deleted successfully.")
	return nil
}

func (c *Console) upgradeCard(ctx context.Context, admin *models.User) error {
	cardID, ok, err := c.promptID("Enter card ID to upgrade: ")
	if err != nil || !ok {
		return err
	}
	raw, err := c.prompt("Enter new card type (Premium, Gold, Silver): ")
	if err != nil {
		return err
	}

	newType, err := models.ParseCardType(raw)
	if err != nil {
		c.reportError(err)
		return nil
	}

	if _, err := c.accounts.UpgradeCard(ctx, admin.UserID, cardID, newType); err != nil {
		c.reportError(err)
		return nil
	}
	c.println("Card upgraded successfully.")
	return nil
}

func (c *Console) showMyCards(ctx context.Context, user *models.User) error {
	cards, err := c.accounts.ListCards(ctx, user.UserID)
	if err != nil {
		c.reportError(err)
		return nil
	}
	c.renderCards(cards)
	return nil
}

func (c *Console) showAllCards(ctx context.Context) error {
	cards, err := c.accounts.ListAllCards(ctx)
	if err != nil {
		c.reportError(err)
		return nil
	}
	c.renderCards(cards)
	return nil
}

func (c *Console) showTransactions(ctx context.Context) error {
	cardID, ok, err := c.promptID("Enter card ID to view transactions: ")
	if err != nil || !ok {
		return err
	}

	history, err := c.accounts.ListTransactions(ctx, cardID)
	if err != nil {
		c.reportError(err)
		return nil
	}
	c.renderTransactions(history)
	return nil
}

func (c *Console) showAllTransactions(ctx context.Context) error {
	history, err := c.accounts.ListAllTransactions(ctx)
	if err != nil {
		c.reportError(err)
		return nil
	}
	c.renderTransactions(history)
	return nil
}

func (c *Console) showActivityLogs(ctx context.Context) error {
	logs, err := c.audit.ListAll(ctx)
	if err != nil {
		c.reportError(err)
		return nil
	}
	c.renderActivity(logs)
	return nil
}

func (c *Console) showPendingRequests(ctx context.Context) error {
	pending, err := c.requests.ListPending(ctx)
	if err != nil {
		c.reportError(err)
		return nil
	}
	c.renderRequests(pending)
	return nil
}

func (c *Console) showMyRequests(ctx context.Context, user *models.User) error {
	mine, err := c.requests.ListByUser(ctx, user.UserID)
	if err != nil {
		c.reportError(err)
		return nil
	}
	c.renderRequests(mine)
	return nil
}
