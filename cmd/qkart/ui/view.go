package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/qkart/qkart/internal/cart"
	"github.com/qkart/qkart/internal/notify"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	identityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	focusedStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("10")).Padding(0, 1)
	blurredStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	toastStyles = map[notify.Severity]lipgloss.Style{
		notify.Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		notify.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		notify.Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		notify.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)

func (m Model) View() string {
	var b strings.Builder

	header := titleStyle.Render("QKart")
	if identity := m.deps.Gate.Identity(); identity != "" {
		header += "  " + identityStyle.Render(identity)
	} else {
		header += "  " + dimStyle.Render("not signed in")
	}
	b.WriteString(header)
	b.WriteString("\n\n")

	searchBox := m.input.View()
	if m.focus == focusSearch {
		b.WriteString(focusedStyle.Render(searchBox))
	} else {
		b.WriteString(blurredStyle.Render(searchBox))
	}
	b.WriteString("\n")

	left := m.renderProducts()
	right := m.renderCart()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	b.WriteString("\n")

	if m.toast != "" {
		style, ok := toastStyles[m.toastSev]
		if !ok {
			style = dimStyle
		}
		b.WriteString(style.Render(m.toast))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("tab: switch panel · enter/a: add to cart · +/-: quantity · /: search · esc: quit"))
	return b.String()
}

func (m Model) renderProducts() string {
	var b strings.Builder
	if m.noResults {
		b.WriteString("No products found\n")
	}
	for i, p := range m.products {
		line := fmt.Sprintf("%s  %s  $%d  %d/5", p.Name, p.Category, p.Cost, p.Rating)
		if m.focus == focusProducts && i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.focus == focusProducts {
		return focusedStyle.Render(b.String())
	}
	return blurredStyle.Render(b.String())
}

func (m Model) renderCart() string {
	var b strings.Builder
	b.WriteString("Cart\n")
	if len(m.items) == 0 {
		b.WriteString(dimStyle.Render("empty") + "\n")
	}
	for i, item := range m.items {
		line := fmt.Sprintf("%s ×%d  $%d", item.Name, item.Quantity, item.Cost*int64(item.Quantity))
		if m.focus == focusCart && i == m.cartCursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.items) > 0 {
		b.WriteString(fmt.Sprintf("Total: $%d\n", cart.Total(m.items)))
	}
	if m.focus == focusCart {
		return focusedStyle.Render(b.String())
	}
	return blurredStyle.Render(b.String())
}
