package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/ruralpay/cardledger/internal/models"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

func (c *Console) table(header string, rows func(w *tabwriter.Writer)) {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	w.Flush()
}

func (c *Console) renderCards(cards []*models.Card) {
	if len(cards) == 0 {
		c.println("No cards found.")
		return
	}
	c.table("ID\tUSER\tTYPE\tBALANCE\tEXPIRES\tCREATED", func(w *tabwriter.Writer) {
		for _, card := range cards {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n",
				card.CardID, card.UserID, card.CardType, card.FormatBalance(),
				card.ExpiryDate.Format(dateLayout), card.CreatedAt.Format(dateTimeLayout))
		}
	})
}

func (c *Console) renderTransactions(history []*models.Transaction) {
	if len(history) == 0 {
		c.println("No transactions found.")
		return
	}
	c.table("ID\tCARD\tTYPE\tAMOUNT\tDATE", func(w *tabwriter.Writer) {
		for _, t := range history {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n",
				t.TransactionID, t.CardID, t.TransactionType, t.Amount.StringFixed(2),
				t.TransactionDate.Format(dateTimeLayout))
		}
	})
}

func (c *Console) renderActivity(logs []*models.ActivityLog) {
	if len(logs) == 0 {
		c.println("No activity recorded.")
		return
	}
	c.table("ID\tUSER\tTIME\tACTION", func(w *tabwriter.Writer) {
		for _, entry := range logs {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\n",
				entry.LogID, entry.UserID, entry.ActionTime.Format(dateTimeLayout), entry.Action)
		}
	})
}

func (c *Console) renderRequests(requests []*models.CardRequest) {
	if len(requests) == 0 {
		c.println("No requests found.")
		return
	}
	c.table("ID\tUSER\tCARD\tTYPE\tNEW TYPE\tSTATUS\tDATE", func(w *tabwriter.Writer) {
		for _, r := range requests {
			newType := "-"
			if r.NewCardType != nil {
				newType = string(*r.NewCardType)
			}
			fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\t%s\t%s\n",
				r.RequestID, r.UserID, r.CardID, r.RequestType, newType, r.Status,
				r.RequestDate.Format(dateTimeLayout))
		}
	})
}
