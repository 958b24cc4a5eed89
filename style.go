package statement

import "github.com/aerissecure/statement/grid"

// Role is what a cell or range is in a statement; it alone decides the
// range's format.
type Role int

const (
	RoleNone Role = iota
	RoleTitleHeader
	RoleSubHeader
	RoleDateLine
	RoleSectionBanner
	RoleUnderline
	RoleNote
	RoleSubtotalRow
	RoleHighlightRow
	RoleGrandTotalRow
	RoleCurrencyCell
	RoleLabelColumn
	RoleValueColumn
	RoleGroupFrame
)

var roleNames = map[Role]string{
	RoleNone:          "none",
	RoleTitleHeader:   "title-header",
	RoleSubHeader:     "sub-header",
	RoleDateLine:      "date-line",
	RoleSectionBanner: "section-banner",
	RoleUnderline:     "underline",
	RoleNote:          "note",
	RoleSubtotalRow:   "subtotal-row",
	RoleHighlightRow:  "highlight-row",
	RoleGrandTotalRow: "grand-total-row",
	RoleCurrencyCell:  "currency-cell",
	RoleLabelColumn:   "label-column",
	RoleValueColumn:   "value-column",
	RoleGroupFrame:    "group-frame",
}

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return "unknown"
}

// Palette shared by every statement.
const (
	ColorBanner     = "4472C4"
	ColorBannerText = "FFFFFF"
	ColorSubtotal   = "E7E6E6"
	ColorHighlight  = "D9E1F2"
	DefaultLabelPt  = 280
	DefaultValuePt  = 120
)

// Style returns the format directive for role. It is a pure function: the
// same role always yields the same directive.
func Style(role Role) grid.Format {
	switch role {
	case RoleTitleHeader:
		return grid.Format{Bold: true, FontSize: 16}
	case RoleSubHeader:
		return grid.Format{FontSize: 14}
	case RoleDateLine:
		return grid.Format{Italic: true}
	case RoleSectionBanner:
		return grid.Format{Bold: true, FontSize: 12, FillColor: ColorBanner, FontColor: ColorBannerText, Merge: true}
	case RoleUnderline:
		return grid.Format{Bold: true, Underline: true}
	case RoleNote:
		return grid.Format{Italic: true}
	case RoleSubtotalRow:
		return grid.Format{Bold: true, FillColor: ColorSubtotal, Border: grid.Border{Top: grid.LineThin}}
	case RoleHighlightRow:
		return grid.Format{Bold: true, FillColor: ColorHighlight}
	case RoleGrandTotalRow:
		return grid.Format{
			Bold:      true,
			FontSize:  12,
			FillColor: ColorHighlight,
			Border:    grid.Border{Top: grid.LineDouble, Bottom: grid.LineDouble},
		}
	case RoleCurrencyCell:
		return grid.Format{NumberFormat: grid.CurrencyFormat}
	case RoleLabelColumn:
		return grid.Format{ColumnWidth: DefaultLabelPt}
	case RoleValueColumn:
		return grid.Format{ColumnWidth: DefaultValuePt, HAlign: "right"}
	case RoleGroupFrame:
		return grid.Format{Border: grid.Border{Left: grid.LineThin, Right: grid.LineThin}}
	}
	return grid.Format{}
}

func totalRole(e Emphasis) Role {
	switch e {
	case EmphasisGrand:
		return RoleGrandTotalRow
	case EmphasisHighlight:
		return RoleHighlightRow
	}
	return RoleSubtotalRow
}
