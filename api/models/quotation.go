package models

// DefaultCollection is the collection quotations are added to by the CLI.
const DefaultCollection = "default"

// DefaultQuote is shown when there are no quotations at all.
const DefaultQuote = "Don't panic\n    -- Douglas Adams"

type Quotation struct {
	Collection string `db:"collection"`
	Quote      string `db:"quote"`
}
