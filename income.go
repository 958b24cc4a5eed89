package statement

// TaxRate is the flat rate applied to income before taxes.
const TaxRate = 0.25

// IncomeStatement is the statement of profit and loss for a year. Every
// figure is optional and defaults to the sample company's numbers.
func IncomeStatement() Layout {
	return Layout{
		Key:    "income",
		Name:   "Income Statement",
		Period: YearEnded,
		Sections: []Section{
			{
				ID:     "revenue",
				Title:  "REVENUE",
				Banner: BannerFill,
				Items: []LineItem{
					indented("salesRevenue", "Sales Revenue", KeyOr("salesRevenue", 500000)),
					indented("serviceRevenue", "Service Revenue", KeyOr("serviceRevenue", 150000)),
				},
				Subtotal: &Subtotal{Label: "Total Revenue", Rule: Sum("")},
			},
			{
				ID:     "costOfSales",
				Title:  "COST OF GOODS SOLD",
				Banner: BannerFill,
				Items: []LineItem{
					indented("cogs", "Cost of Goods Sold", KeyOr("cogs", 300000)),
				},
			},
			{
				ID:     "operatingExpenses",
				Title:  "OPERATING EXPENSES",
				Banner: BannerFill,
				Items: []LineItem{
					indented("sellingExpenses", "Selling Expenses", KeyOr("sellingExpenses", 50000)),
					indented("adminExpenses", "General & Administrative", KeyOr("adminExpenses", 75000)),
					indented("researchExpenses", "Research & Development", KeyOr("researchExpenses", 30000)),
					indented("depreciationExpense", "Depreciation & Amortization", KeyOr("depreciationExpense", 25000)),
				},
				Subtotal: &Subtotal{Label: "Total Operating Expenses", Rule: Sum("")},
			},
			{
				ID:     "otherIncome",
				Title:  "OTHER INCOME (EXPENSES)",
				Banner: BannerFill,
				Items: []LineItem{
					indented("interestIncome", "Interest Income", KeyOr("interestIncome", 5000)),
					indented("interestExpense", "Interest Expense", KeyOr("interestExpense", -8000)),
					indented("gainOnSale", "Gain on Sale of Assets", KeyOr("gainOnSale", 3000)),
				},
				Subtotal: &Subtotal{Label: "Total Other Income (Expenses)", Rule: Sum("")},
			},
		},
		Totals: []Total{
			{
				ID:       "grossProfit",
				Label:    "GROSS PROFIT",
				Rule:     Linear(Plus("revenue"), Minus("cogs")),
				After:    "costOfSales",
				Emphasis: EmphasisHighlight,
			},
			{
				ID:       "operatingIncome",
				Label:    "OPERATING INCOME",
				Rule:     Linear(Plus("grossProfit"), Minus("operatingExpenses")),
				After:    "operatingExpenses",
				Emphasis: EmphasisHighlight,
			},
			{
				ID:       "incomeBeforeTaxes",
				Label:    "INCOME BEFORE TAXES",
				Rule:     Linear(Plus("operatingIncome"), Plus("otherIncome")),
				After:    "otherIncome",
				Emphasis: EmphasisSubtotal,
			},
			{
				ID:       "incomeTax",
				Label:    "Income Tax Expense",
				Rule:     Multiply("incomeBeforeTaxes", TaxRate),
				Emphasis: EmphasisSubtotal,
			},
			{
				ID:       "netIncome",
				Label:    "NET INCOME",
				Rule:     Linear(Plus("incomeBeforeTaxes"), Minus("incomeTax")),
				Emphasis: EmphasisGrand,
			},
		},
	}
}
