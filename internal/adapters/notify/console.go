package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/bizbots/internal/domain"
	"github.com/alejandrodnm/bizbots/internal/ports"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

var _ ports.Notifier = (*Console)(nil)

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// NotifyDeployments imprime el resultado del despliegue en el modo configurado.
func (c *Console) NotifyDeployments(_ context.Context, deployments []domain.Deployment, total float64) error {
	if len(deployments) == 0 {
		fmt.Fprintf(c.out, "[%s] no bots deployed\n", time.Now().Format("15:04:05"))
		return nil
	}

	if c.table {
		c.printDeploymentTable(deployments, total)
	} else {
		c.printCompact(deployments, total)
	}
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(deps []domain.Deployment, total float64) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d bots → total $%.2f", time.Now().Format("15:04:05"), len(deps), total)
	for _, d := range deps {
		fmt.Fprintf(&sb, " | %s $%.2f", compactName(d.Bot.Country, 14), d.Revenue)
	}
	fmt.Fprintln(c.out, sb.String())
}

// printDeploymentTable imprime una fila por bot y el total acumulado.
func (c *Console) printDeploymentTable(deps []domain.Deployment, total float64) {
	fmt.Fprintf(c.out, "\n[%s] %d bots deployed\n", time.Now().Format("15:04:05"), len(deps))

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Bot", "Country", "Strategy", "Key", "Revenue", "Total")

	for i, d := range deps {
		key := "-"
		if d.Bot.HasAPIKey() {
			key = "yes"
		}
		revenue := fmt.Sprintf("$%.2f", d.Revenue)
		if !d.Tracked {
			revenue += " (discarded)"
		}
		table.Append(
			fmt.Sprintf("%d", i+1),
			shortID(d.Bot.ID),
			d.Bot.Country,
			d.Bot.Strategy,
			key,
			revenue,
			fmt.Sprintf("$%.2f", d.Total),
		)
	}
	table.Render()

	fmt.Fprintf(c.out, "  TOTAL REVENUE: $%.2f\n\n", total)
}

// PrintFreeAPIs imprime las APIs descubiertas.
func (c *Console) PrintFreeAPIs(apis []domain.FreeAPI) {
	if len(apis) == 0 {
		fmt.Fprintln(c.out, "\n  No free APIs discovered.")
		return
	}

	fmt.Fprintf(c.out, "\n=== FREE APIs (no auth, HTTPS) — %d ===\n", len(apis))

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "API", "Category", "Description", "Link")
	for i, api := range apis {
		table.Append(
			fmt.Sprintf("%d", i+1),
			api.Name,
			api.Category,
			truncate(api.Description, 40),
			api.Link,
		)
	}
	table.Render()
}

// PrintBots imprime los bots persistidos en orden de despliegue.
func (c *Console) PrintBots(bots []domain.Bot) {
	if len(bots) == 0 {
		fmt.Fprintln(c.out, "\n  No bots recorded.")
		return
	}

	fmt.Fprintf(c.out, "\n=== BOTS — %d ===\n", len(bots))

	table := tablewriter.NewWriter(c.out)
	table.Header("Bot", "Country", "Strategy", "Active", "Deployed")
	for _, b := range bots {
		active := "no"
		if b.Active {
			active = "yes"
		}
		table.Append(
			shortID(b.ID),
			b.Country,
			b.Strategy,
			active,
			b.DeployedAt.Format("2006-01-02 15:04"),
		)
	}
	table.Render()
}

// PrintRevenueReport imprime el resumen del ledger persistido.
func (c *Console) PrintRevenueReport(stats domain.RevenueStats) {
	if stats.TotalBots == 0 {
		fmt.Fprintln(c.out, "\n  No revenue data yet. Run without -dry-run first.")
		return
	}

	fmt.Fprintf(c.out, "\n")
	fmt.Fprintf(c.out, "========================================================\n")
	fmt.Fprintf(c.out, "  REVENUE REPORT (simulated)\n")
	if !stats.FirstEvent.IsZero() {
		fmt.Fprintf(c.out, "  %s to %s\n",
			stats.FirstEvent.Format("2006-01-02 15:04"),
			stats.LastEvent.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(c.out, "========================================================\n\n")

	if len(stats.ByCountry) > 0 {
		tbl := tablewriter.NewWriter(c.out)
		tbl.Header("Country", "Bots", "Events", "Revenue", "Share")
		for _, cr := range stats.ByCountry {
			tbl.Append(
				cr.Country,
				fmt.Sprintf("%d", cr.Bots),
				fmt.Sprintf("%d", cr.Events),
				fmt.Sprintf("$%.2f", cr.Revenue),
				fmt.Sprintf("%.1f%%", pct(cr.Revenue, stats.TotalRevenue)),
			)
		}
		tbl.Render()
	}

	fmt.Fprintf(c.out, "\n  --- AGGREGATE ---\n")
	fmt.Fprintf(c.out, "  Bots deployed:   %d\n", stats.TotalBots)
	fmt.Fprintf(c.out, "  Revenue events:  %d\n", stats.TotalEvents)
	fmt.Fprintf(c.out, "  Total revenue:   $%.2f\n", stats.TotalRevenue)
	fmt.Fprintf(c.out, "  Avg per event:   $%.2f\n\n", stats.AvgRevenue)
}

// --- helpers ---

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// truncate corta por runas, nunca en medio de un carácter UTF-8.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func compactName(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	cut := r[:maxLen]
	for i := len(cut) - 1; i > maxLen/2; i-- {
		if cut[i] == ' ' {
			cut = cut[:i]
			break
		}
	}
	return string(cut) + "…"
}

func pct(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}
