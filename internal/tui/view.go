package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/unicompass/internal/catalog"
	"github.com/existflow/unicompass/internal/model"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.screen {
	case ScreenLogin:
		content = m.renderLogin()
	case ScreenCatalog:
		content = m.renderCatalog()
	case ScreenDetail:
		content = m.renderDetail()
	case ScreenDashboard:
		content = m.renderDashboard()
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderStatusBar())
}

func (m Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("UniCompass") + "\n\n")
	b.WriteString("Sign in to your account\n\n")
	b.WriteString("Username\n" + m.loginInputs[0].View() + "\n\n")
	b.WriteString("Password\n" + m.loginInputs[1].View() + "\n\n")

	if m.loginBusy {
		b.WriteString(MutedStyle.Render("Logging in...") + "\n")
	}
	if m.loginErr != "" {
		b.WriteString(ErrorStyle.Render(m.loginErr) + "\n")
	}
	b.WriteString("\n" + MutedStyle.Render("enter: sign in · tab: next field · ctrl+c: quit"))

	return lipgloss.Place(
		m.width, m.height-2,
		lipgloss.Center, lipgloss.Center,
		ModalStyle.Render(b.String()),
	)
}

func (m Model) renderCatalog() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Search Universities") + "\n")

	query := m.engine.Query()
	applied := m.engine.Filters()
	line := "query: "
	if query == "" {
		line += MutedStyle.Render("(none)")
	} else {
		line += query
	}
	if !applied.IsZero() {
		line += "   filters: " + SelectedStyle.Render(describeFilters(applied))
	}
	b.WriteString(" " + line + "\n")
	b.WriteString(MutedStyle.Render(strings.Repeat("─", min(m.width, 72))) + "\n")

	switch m.engine.State() {
	case catalog.StateIdle:
		b.WriteString("\n  Press / to search the catalog.\n")
	case catalog.StateLoading:
		b.WriteString("\n  Loading...\n")
	case catalog.StateFailed:
		b.WriteString("\n  " + ErrorStyle.Render("An error occurred: "+m.engine.Failure()) + "\n")
		b.WriteString("  " + MutedStyle.Render("Press / and enter to retry.") + "\n")
	default:
		b.WriteString(m.renderResults())
	}

	if m.mode == ModeSearch {
		modal := ModalStyle.Render("Search\n\n" + m.searchInput.View() + "\n\n" +
			MutedStyle.Render("enter: apply · esc: cancel"))
		return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, modal)
	}
	if m.mode == ModeFilter {
		return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, m.renderFilterModal())
	}

	return b.String()
}

func (m Model) renderResults() string {
	items := m.engine.Items()
	if len(items) == 0 {
		return "\n  " + MutedStyle.Render("No universities match your search/filter.") + "\n"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("\n  %d of %d universities\n\n", len(items), m.engine.Total()))

	for i, u := range items {
		row := fmt.Sprintf("%-34s %-20s %-8s $%s",
			truncate(u.Name, 34),
			truncate(u.City+", "+u.Country, 20),
			u.DegreeLevel,
			u.TuitionFee)
		if i == m.cursor {
			b.WriteString("  " + SelectedStyle.Render("› "+row) + "\n")
		} else {
			b.WriteString("    " + row + "\n")
		}
	}

	if m.engine.State() == catalog.StateLoadingMore {
		b.WriteString("\n  " + MutedStyle.Render("Loading more...") + "\n")
	} else if m.engine.CanLoadMore() {
		b.WriteString("\n  " + MutedStyle.Render("m: load more") + "\n")
	}
	return b.String()
}

func (m Model) renderFilterModal() string {
	var b strings.Builder
	b.WriteString("Filters\n\n")
	for i := 0; i < filterFieldCount; i++ {
		label := filterLabels[i]
		if i == m.filterFocus {
			b.WriteString(SelectedStyle.Render(label) + "\n")
		} else {
			b.WriteString(label + "\n")
		}
		b.WriteString(m.filterInputs[i].View() + "\n")
	}
	b.WriteString("\n" + MutedStyle.Render("enter: apply · esc: cancel · tab: next field"))
	return ModalStyle.Render(b.String())
}

func (m Model) renderDetail() string {
	u := m.detail
	if u == nil {
		return "\n  Loading...\n"
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(u.Name) + "\n")
	b.WriteString(" " + MutedStyle.Render(u.City+", "+u.Country) + "\n\n")

	admissions := fmt.Sprintf("Admissions\n\nApplication fee: $%s\nUndergrad deadline: %s\nGrad deadline: %s",
		u.ApplicationFee, orDash(u.DeadlineUndergrad), orDash(u.DeadlineGrad))
	academics := fmt.Sprintf("Academics & Costs\n\nCourse: %s\nDegree level: %s\nTuition: $%s/year",
		u.CourseOffered, u.DegreeLevel, u.TuitionFee)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		CardStyle.Render(admissions), " ", CardStyle.Render(academics)) + "\n\n")

	if len(u.Scholarships) > 0 {
		b.WriteString(" Scholarships:\n")
		for _, sch := range u.Scholarships {
			b.WriteString(fmt.Sprintf("   • %s: %s\n", sch.Name, orDash(sch.Coverage)))
		}
	} else {
		b.WriteString(" " + MutedStyle.Render("No scholarships listed.") + "\n")
	}

	if m.mode == ModePickBucket {
		var p strings.Builder
		p.WriteString("Add to which list?\n\n")
		for i, bucket := range model.Buckets {
			if i == m.bucketCursor {
				p.WriteString(SelectedStyle.Render("› "+bucket.Label()) + "\n")
			} else {
				p.WriteString("  " + bucket.Label() + "\n")
			}
		}
		p.WriteString("\n" + MutedStyle.Render("enter: add · esc: cancel"))
		return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, ModalStyle.Render(p.String()))
	}

	return b.String()
}

func (m Model) renderDashboard() string {
	d := m.dash
	if d == nil {
		return "\n  Loading...\n"
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("My Dashboard") + "\n")

	sub := "Subscription: " + d.SubscriptionStatus
	if d.SubscriptionEndDate != "" {
		sub += " (expires " + d.SubscriptionEndDate + ")"
	}
	switch d.SubscriptionStatus {
	case model.SubscriptionActive:
		b.WriteString(" " + SuccessStyle.Render(sub) + "\n")
	case model.SubscriptionExpired:
		b.WriteString(" " + ErrorStyle.Render(sub) + "\n")
	default:
		b.WriteString(" " + MutedStyle.Render(sub) + "\n")
	}

	for _, bucket := range model.Buckets {
		list := d.List(bucket)
		b.WriteString(fmt.Sprintf("\n %s (%d)\n", SelectedStyle.Render(bucket.Label()), len(list)))
		if len(list) == 0 {
			b.WriteString("   " + MutedStyle.Render("No universities in this list yet.") + "\n")
			continue
		}
		for _, u := range list {
			b.WriteString(fmt.Sprintf("   %-5d %s\n", u.ID, u.Name))
		}
	}
	return b.String()
}

func (m Model) renderStatusBar() string {
	var hints string
	switch m.screen {
	case ScreenLogin:
		hints = "enter: sign in · ctrl+c: quit"
	case ScreenCatalog:
		hints = "/: search · f: filters · m: more · enter: detail · D: dashboard · L: logout · q: quit"
	case ScreenDetail:
		hints = "a: add to bucket · b: back · D: dashboard · q: quit"
	case ScreenDashboard:
		hints = "c: catalog · L: logout · q: quit"
	}

	bar := hints
	if m.message != "" {
		bar = m.message + "   " + MutedStyle.Render(hints)
	}
	return StatusBarStyle.Render(bar)
}

func describeFilters(f catalog.FilterSet) string {
	var parts []string
	add := func(label, val string) {
		if val != "" {
			parts = append(parts, label+"="+val)
		}
	}
	add("country", f.Country)
	add("city", f.City)
	add("course", f.Course)
	add("degree", f.Degree)
	add("max-app-fee", f.MaxAppFee)
	add("max-tuition", f.MaxTuition)
	return strings.Join(parts, " ")
}

func orDash(s string) string {
	if s == "" {
		return "not specified"
	}
	return s
}
