package statement

// CashFlowStatement reconciles net income to the change in cash using the
// indirect method. Every figure defaults to the sample company's numbers.
func CashFlowStatement() Layout {
	return Layout{
		Key:    "cashflow",
		Name:   "Cash Flow Statement",
		Period: YearEnded,
		Widths: Widths{Label: 350, Value: 130},
		Sections: []Section{
			{
				ID:     "operating",
				Title:  "CASH FLOWS FROM OPERATING ACTIVITIES",
				Banner: BannerFill,
				Items: []LineItem{
					Item("netIncome", "Net Income", KeyOr("netIncome", 75000)),
					Note("Adjustments to reconcile net income to net cash:"),
					indented("depreciation", "Depreciation & Amortization", KeyOr("depreciation", 25000)),
					indented("lossOnSale", "Loss on Sale of Equipment", KeyOr("lossOnSale", 3000)),
					Note("Changes in Operating Assets and Liabilities:"),
					indented("receivablesChange", "(Increase) in Accounts Receivable", KeyOr("receivablesChange", -8000)),
					indented("inventoryChange", "(Increase) in Inventory", KeyOr("inventoryChange", -12000)),
					indented("prepaidChange", "Decrease in Prepaid Expenses", KeyOr("prepaidChange", 2000)),
					indented("payablesChange", "Increase in Accounts Payable", KeyOr("payablesChange", 6000)),
					indented("accruedChange", "Increase in Accrued Expenses", KeyOr("accruedChange", 4000)),
					indented("taxPayableChange", "Increase in Income Tax Payable", KeyOr("taxPayableChange", 3000)),
				},
				Subtotal: &Subtotal{Label: "Net Cash Provided by Operating Activities", Rule: Sum("")},
			},
			{
				ID:     "investing",
				Title:  "CASH FLOWS FROM INVESTING ACTIVITIES",
				Banner: BannerFill,
				Items: []LineItem{
					indented("equipmentPurchases", "Purchase of Equipment", KeyOr("equipmentPurchases", -45000)),
					indented("investmentPurchases", "Purchase of Investments", KeyOr("investmentPurchases", -15000)),
					indented("equipmentSales", "Proceeds from Sale of Equipment", KeyOr("equipmentSales", 8000)),
					indented("intangiblePurchases", "Purchase of Intangible Assets", KeyOr("intangiblePurchases", -10000)),
				},
				Subtotal: &Subtotal{Label: "Net Cash Used in Investing Activities", Rule: Sum("")},
			},
			{
				ID:     "financing",
				Title:  "CASH FLOWS FROM FINANCING ACTIVITIES",
				Banner: BannerFill,
				Items: []LineItem{
					indented("debtProceeds", "Proceeds from Long-term Debt", KeyOr("debtProceeds", 20000)),
					indented("stockIssued", "Proceeds from Issuance of Common Stock", KeyOr("stockIssued", 50000)),
					indented("debtRepayments", "Repayment of Short-term Debt", KeyOr("debtRepayments", -10000)),
					indented("dividendsPaid", "Dividends Paid", KeyOr("dividendsPaid", -15000)),
					indented("stockRepurchased", "Purchase of Treasury Stock", KeyOr("stockRepurchased", -5000)),
				},
				Subtotal: &Subtotal{Label: "Net Cash Provided by Financing Activities", Rule: Sum("")},
			},
			{
				ID: "cashBalance",
				Items: []LineItem{
					Item("cashBeginning", "Cash and Cash Equivalents at Beginning of Year", KeyOr("cashBeginning", 25000)),
				},
			},
		},
		Totals: []Total{
			{
				ID:       "netChange",
				Label:    "NET INCREASE (DECREASE) IN CASH",
				Rule:     Linear(Plus("operating"), Plus("investing"), Plus("financing")),
				After:    "financing",
				Detached: true,
				Emphasis: EmphasisHighlight,
			},
			{
				ID:       "cashEnding",
				Label:    "Cash and Cash Equivalents at End of Year",
				Rule:     Linear(Plus("cashBeginning"), Plus("netChange")),
				After:    "cashBalance",
				Emphasis: EmphasisGrand,
			},
		},
	}
}
