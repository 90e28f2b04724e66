package main

import (
	"fmt"
	"html"
	"strings"

	"github.com/spf13/cobra"

	"SignalDesk/internal/ledger"
	"SignalDesk/internal/notifier"
)

var showCmd = &cobra.Command{
	Use:   "show [TICKER...]",
	Short: "Print the ledger state of the given tickers (all when omitted)",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := ledger.LoadDocument(cfg.Ledger.Path)
		if err != nil {
			return err
		}
		book := ledger.NewBook(doc, ledger.DefaultConfig())

		if len(args) == 0 {
			for _, e := range doc.Companies {
				args = append(args, e.Ticker)
			}
		}
		if len(args) == 0 {
			fmt.Printf("ledger %s is empty\n", cfg.Ledger.Path)
			return nil
		}
		if doc.LastUpdated != nil {
			fmt.Printf("last updated %s\n\n", doc.LastUpdated.Format("2006-01-02 15:04 MST"))
		}
		for _, t := range args {
			entry := book.Entry(strings.ToUpper(t))
			if entry == nil {
				fmt.Printf("%s: no ledger entry\n\n", t)
				continue
			}
			fmt.Println(plainText(notifier.FormatStatus(entry)))
		}
		return nil
	},
}

var tagStripper = strings.NewReplacer("<b>", "", "</b>", "", "<i>", "", "</i>", "")

// plainText drops the Telegram HTML markup for terminal output.
func plainText(s string) string {
	return html.UnescapeString(tagStripper.Replace(s))
}
