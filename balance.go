package statement

// BalanceSheet is the statement of financial position. Current and
// non-current asset figures for cash, receivables, inventory, prepaid
// expenses, property and depreciation must be supplied; everything else
// defaults to the sample company's figures.
func BalanceSheet() Layout {
	return Layout{
		Key:    "balance",
		Name:   "Balance Sheet",
		Period: AsOf,
		Framed: true,
		Sections: []Section{
			{
				ID:     "currentAssets",
				Title:  "Current Assets",
				Group:  "ASSETS",
				Banner: BannerUnderline,
				Items: []LineItem{
					indented("cash", "Cash and Cash Equivalents", Key("cash")),
					indented("accountsReceivable", "Accounts Receivable", Key("accountsReceivable")),
					indented("inventory", "Inventory", Key("inventory")),
					indented("prepaidExpenses", "Prepaid Expenses", Key("prepaidExpenses")),
				},
				Subtotal: &Subtotal{Label: "Total Current Assets", Rule: Sum("")},
			},
			{
				ID:     "nonCurrentAssets",
				Title:  "Non-Current Assets",
				Banner: BannerUnderline,
				Items: []LineItem{
					indented("ppe", "Property, Plant & Equipment", Key("ppe")),
					negated(indented("depreciation", "Less: Accumulated Depreciation", Key("depreciation"))),
					indented("intangibles", "Intangible Assets", KeyOr("intangibles", 30000)),
					indented("longTermInvestments", "Long-term Investments", KeyOr("longTermInvestments", 25000)),
				},
				Subtotal: &Subtotal{Label: "Total Non-Current Assets", Rule: Sum("")},
			},
			{
				ID:     "currentLiabilities",
				Title:  "Current Liabilities",
				Group:  "LIABILITIES",
				Banner: BannerUnderline,
				Items: []LineItem{
					indented("accountsPayable", "Accounts Payable", KeyOr("accountsPayable", 28000)),
					indented("shortTermDebt", "Short-term Debt", KeyOr("shortTermDebt", 15000)),
					indented("accruedExpenses", "Accrued Expenses", KeyOr("accruedExpenses", 12000)),
					indented("incomeTaxPayable", "Income Tax Payable", KeyOr("incomeTaxPayable", 8000)),
				},
				Subtotal: &Subtotal{Label: "Total Current Liabilities", Rule: Sum("")},
			},
			{
				ID:     "nonCurrentLiabilities",
				Title:  "Non-Current Liabilities",
				Banner: BannerUnderline,
				Items: []LineItem{
					indented("longTermDebt", "Long-term Debt", KeyOr("longTermDebt", 100000)),
					indented("deferredTax", "Deferred Tax Liabilities", KeyOr("deferredTax", 15000)),
				},
				Subtotal: &Subtotal{Label: "Total Non-Current Liabilities", Rule: Sum("")},
			},
			{
				ID:     "equity",
				Title:  "SHAREHOLDERS' EQUITY",
				Banner: BannerFill,
				Items: []LineItem{
					indented("commonStock", "Common Stock", KeyOr("commonStock", 50000)),
					indented("retainedEarnings", "Retained Earnings", KeyOr("retainedEarnings", 119000)),
					indented("paidInCapital", "Additional Paid-in Capital", KeyOr("paidInCapital", 20000)),
				},
				Subtotal: &Subtotal{Label: "Total Shareholders' Equity", Rule: Sum("")},
			},
		},
		Totals: []Total{
			{
				ID:       "totalAssets",
				Label:    "TOTAL ASSETS",
				Rule:     Linear(Plus("currentAssets"), Plus("nonCurrentAssets")),
				After:    "nonCurrentAssets",
				Detached: true,
				Emphasis: EmphasisGrand,
			},
			{
				ID:       "totalLiabilities",
				Label:    "TOTAL LIABILITIES",
				Rule:     Linear(Plus("currentLiabilities"), Plus("nonCurrentLiabilities")),
				After:    "nonCurrentLiabilities",
				Detached: true,
				Emphasis: EmphasisSubtotal,
			},
			{
				ID:       "totalLiabilitiesAndEquity",
				Label:    "TOTAL LIABILITIES AND EQUITY",
				Rule:     Linear(Plus("totalLiabilities"), Plus("equity")),
				After:    "equity",
				Detached: true,
				Emphasis: EmphasisGrand,
			},
		},
	}
}

func indented(id, label string, v ValueRef) LineItem {
	it := Item(id, label, v)
	it.Indent = 1
	return it
}

func negated(it LineItem) LineItem {
	it.Negate = true
	return it
}
