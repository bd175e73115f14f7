package cli

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ruralpay/cardledger/internal/errors"
	"github.com/ruralpay/cardledger/internal/logger"
	"github.com/ruralpay/cardledger/internal/models"
	"github.com/ruralpay/cardledger/internal/services"
)

// Accounts is the card and balance side of the ledger
type Accounts interface {
	CreateCard(ctx context.Context, userID int64, cardType models.CardType) (*models.Card, error)
	DeleteCard(ctx context.Context, actorID, cardID int64) error
	UpgradeCard(ctx context.Context, actorID, cardID int64, newType models.CardType) (*models.Card, error)
	PostTransaction(ctx context.Context, userID, cardID int64, amount decimal.Decimal, txType models.TransactionType) (*models.Transaction, error)
	ListCards(ctx context.Context, userID int64) ([]*models.Card, error)
	ListAllCards(ctx context.Context) ([]*models.Card, error)
	ListTransactions(ctx context.Context, cardID int64) ([]*models.Transaction, error)
	ListAllTransactions(ctx context.Context) ([]*models.Transaction, error)
}

// Requests is the card-change approval workflow
type Requests interface {
	Submit(ctx context.Context, userID, cardID int64, requestType models.RequestType, newType *models.CardType) (*models.CardRequest, error)
	ListPending(ctx context.Context) ([]*models.CardRequest, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.CardRequest, error)
	Resolve(ctx context.Context, adminID, requestID int64, decision string) (*models.CardRequest, error)
}

type Auth interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	SignUp(ctx context.Context, username, password string) (*models.User, error)
	Register(ctx context.Context, adminID int64, in services.RegisterInput) (*models.User, error)
}

type Audit interface {
	LogAction(ctx context.Context, userID int64, action string) error
	ListAll(ctx context.Context) ([]*models.ActivityLog, error)
}

// errQuit ends the session when input runs out.
var errQuit = stderrors.New("input closed")

// Console is the interactive text menu.
type Console struct {
	in       *bufio.Scanner
	out      io.Writer
	accounts Accounts
	requests Requests
	auth     Auth
	audit    Audit
	session  string
}

func NewConsole(in io.Reader, out io.Writer, accounts Accounts, requests Requests, auth Auth, audit Audit) *Console {
	return &Console{
		in:       bufio.NewScanner(in),
		out:      out,
		accounts: accounts,
		requests: requests,
		auth:     auth,
		audit:    audit,
		session:  uuid.NewString(),
	}
}

// Run shows the top-level menu until the operator quits or input ends.
func (c *Console) Run(ctx context.Context) error {
	logger.Info().Str("session", c.session).Msg("console started")
	defer logger.Info().Str("session", c.session).Msg("console stopped")

	for {
		c.println("\nCredit Card Management")
		c.println("1. Login")
		c.println("2. Sign Up")
		c.println("0. Quit")

		choice, err := c.prompt("Enter your choice: ")
		if err != nil {
			return nil
		}

		switch choice {
		case "1":
			err = c.login(ctx)
		case "2":
			err = c.signUp(ctx)
		case "0", "q", "quit":
			c.println("Goodbye.")
			return nil
		default:
			c.println("Invalid choice.")
		}

		if err == errQuit {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func (c *Console) login(ctx context.Context) error {
	username, err := c.prompt("Enter username: ")
	if err != nil {
		return err
	}
	password, err := c.prompt("Enter password: ")
	if err != nil {
		return err
	}

	user, err := c.auth.Login(ctx, username, password)
	if err != nil {
		c.reportError(err)
		return nil
	}

	c.println("Login successful.")
	c.logAction(ctx, user.UserID, "Logged in.")
	logger.Info().Str("session", c.session).Int64("user_id", user.UserID).Msg("operator logged in")

	if user.IsAdmin() {
		err = c.adminMenu(ctx, user)
	} else {
		err = c.userMenu(ctx, user)
	}
	if err != nil {
		return err
	}

	c.logAction(ctx, user.UserID, "Logged out.")
	return nil
}

func (c *Console) signUp(ctx context.Context) error {
	username, err := c.prompt("Enter a username: ")
	if err != nil {
		return err
	}
	password, err := c.prompt("Enter a password: ")
	if err != nil {
		return err
	}

	if _, err := c.auth.SignUp(ctx, username, password); err != nil {
		c.reportError(err)
		return nil
	}
	c.println("User registered successfully.")
	return nil
}

// logAction records session events; a failure is shown but does not end the session.
func (c *Console) logAction(ctx context.Context, userID int64, action string) {
	if err := c.audit.LogAction(ctx, userID, action); err != nil {
		c.reportError(err)
	}
}

func (c *Console) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		c.println("")
		return "", errQuit
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) promptID(label string) (int64, bool, error) {
	raw, err := c.prompt(label)
	if err != nil {
		return 0, false, err
	}
	id, convErr := strconv.ParseInt(raw, 10, 64)
	if convErr != nil || id <= 0 {
		c.println("Error: please enter a positive whole number.")
		return 0, false, nil
	}
	return id, true, nil
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// reportError prints err as a single line. Storage failures keep their detail in the log.
func (c *Console) reportError(err error) {
	var vErr *errors.ValidationError
	switch {
	case stderrors.As(err, &vErr):
		c.printf("Error: invalid %s: %s\n", vErr.Field, vErr.Message)
	case errors.IsStorageUnavailable(err):
		logger.Error().Err(err).Str("session", c.session).Msg("storage failure")
		c.println("Error: the ledger store is unavailable, please try again later.")
	default:
		c.printf("Error: %s\n", err.Error())
	}
}
