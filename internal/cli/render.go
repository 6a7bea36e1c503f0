package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	goRate "github.com/MrEthical07/goRate"
)

var (
	primary = lipgloss.Color("#7C3AED")
	success = lipgloss.Color("#10B981")
	warning = lipgloss.Color("#F59E0B")
	danger  = lipgloss.Color("#EF4444")
	muted   = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(primary)
	labelStyle = lipgloss.NewStyle().Foreground(muted)
	okStyle    = lipgloss.NewStyle().Foreground(success).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(danger).Bold(true)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

func formatJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}

func formatIdentity(id goRate.Identity) string {
	return fmt.Sprintf("%s %s\n%s %s\n%s %s",
		labelStyle.Render("User:"), id.Email,
		labelStyle.Render("Role:"), roleBadge(id.Role),
		labelStyle.Render("ID:  "), id.UserID,
	)
}

func roleBadge(r goRate.Role) string {
	switch r {
	case goRate.RoleAdmin:
		return errStyle.Render(string(r))
	case goRate.RoleOwner:
		return warnStyle.Render(string(r))
	default:
		return okStyle.Render(string(r))
	}
}

func formatDecision(path string, out goRate.Outcome) string {
	var state string
	switch out.Decision {
	case goRate.DecisionAllow:
		state = okStyle.Render("allowed")
	case goRate.DecisionPending:
		state = warnStyle.Render("pending")
	default:
		state = errStyle.Render("redirected")
	}
	if out.Target == "" {
		return fmt.Sprintf("%s %s", path, state)
	}
	return fmt.Sprintf("%s %s -> %s", path, state, out.Target)
}

func stars(avg float64) string {
	full := int(avg + 0.5)
	if full > 5 {
		full = 5
	}
	if full < 0 {
		full = 0
	}
	return strings.Repeat("★", full) + strings.Repeat("☆", 5-full)
}

// table renders rows as left-aligned columns.
func table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	line := func(cells []string, style *lipgloss.Style) {
		for i, cell := range cells {
			pad := lipgloss.NewStyle().Width(widths[i] + 2)
			if style != nil {
				cell = style.Render(cell)
			}
			b.WriteString(pad.Render(cell))
		}
		b.WriteString("\n")
	}
	line(headers, &headerStyle)
	for _, row := range rows {
		line(row, nil)
	}
	return strings.TrimRight(b.String(), "\n")
}

// yourRating returns the value userID gave s, or 0 when there is none.
func yourRating(s goRate.Store, userID string) int {
	if userID == "" {
		return 0
	}
	for _, r := range s.Ratings {
		if r.User.ID == userID {
			return r.RatingValue
		}
	}
	return 0
}

func formatYourRating(v int) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%d/5", v)
}

// formatStores lists stores. With a userID the list gains a column holding
// that user's own rating.
func formatStores(stores []goRate.Store, userID string) string {
	if len(stores) == 0 {
		return labelStyle.Render("No stores found.")
	}
	headers := []string{"ID", "NAME", "ADDRESS", "RATING"}
	if userID != "" {
		headers = append(headers, "YOUR RATING")
	}
	rows := make([][]string, 0, len(stores))
	for _, s := range stores {
		row := []string{
			s.ID,
			s.Name,
			s.Address,
			fmt.Sprintf("%s %.1f", stars(s.AverageRating), s.AverageRating),
		}
		if userID != "" {
			row = append(row, formatYourRating(yourRating(s, userID)))
		}
		rows = append(rows, row)
	}
	return table(headers, rows)
}

func formatStore(s *goRate.Store, userID string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(s.Name))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Address:"), s.Address)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Email:  "), s.Email)
	if s.Owner != nil {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Owner:  "), s.Owner.Name)
	}
	fmt.Fprintf(&b, "%s %s %.1f (%d ratings)", labelStyle.Render("Rating: "), stars(s.AverageRating), s.AverageRating, len(s.Ratings))
	if userID != "" {
		fmt.Fprintf(&b, "\n%s %s", labelStyle.Render("Yours:  "), formatYourRating(yourRating(*s, userID)))
	}
	if len(s.Ratings) > 0 {
		rows := make([][]string, 0, len(s.Ratings))
		for _, r := range s.Ratings {
			rows = append(rows, []string{r.User.Name, fmt.Sprintf("%d", r.RatingValue)})
		}
		b.WriteString("\n\n")
		b.WriteString(table([]string{"USER", "RATING"}, rows))
	}
	return panelStyle.Render(b.String())
}

func formatUsers(users []goRate.User) string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, u.Name, u.Email, string(u.Role)})
	}
	return table([]string{"ID", "NAME", "EMAIL", "ROLE"}, rows)
}

func formatAdminDashboard(d *goRate.AdminDashboard) string {
	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(fmt.Sprintf("%s\n%d", labelStyle.Render("Total Users"), d.Stats.Users)),
		panelStyle.Render(fmt.Sprintf("%s\n%d", labelStyle.Render("Total Stores"), d.Stats.Stores)),
		panelStyle.Render(fmt.Sprintf("%s\n%d", labelStyle.Render("Total Ratings"), d.Stats.Ratings)),
	)
	return strings.Join([]string{
		titleStyle.Render("Admin Dashboard"),
		stats,
		titleStyle.Render("Users"),
		formatUsers(d.Users),
		titleStyle.Render("Stores"),
		formatStores(d.Stores, ""),
	}, "\n")
}

func formatOwnerDashboard(d *goRate.OwnerDashboard) string {
	parts := []string{titleStyle.Render("Store Owner Dashboard")}
	if len(d.Stores) == 0 {
		return strings.Join(append(parts, labelStyle.Render("You do not own any stores.")), "\n")
	}
	names := make([]string, 0, len(d.Stores))
	for _, s := range d.Stores {
		names = append(names, s.Name)
	}
	parts = append(parts, labelStyle.Render("Your stores: ")+strings.Join(names, ", "))
	if d.Selected != nil {
		parts = append(parts, formatStore(d.Selected, ""))
	}
	return strings.Join(parts, "\n")
}

func formatUserDashboard(d *goRate.UserDashboard, userID string) string {
	title := "Stores"
	if d.Query != "" {
		title = fmt.Sprintf("Stores matching %q", d.Query)
	}
	return titleStyle.Render(title) + "\n" + formatStores(d.Stores, userID)
}
