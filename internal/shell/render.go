package shell

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/retail-ledger/internal/domain"
	"github.com/joao-fontenele/retail-ledger/internal/session"
)

const barWidth = 40

func (s *Shell) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(s.out)
	t.SetStyle(table.StyleLight)
	return t
}

func rightAligned(columns ...int) []table.ColumnConfig {
	configs := make([]table.ColumnConfig, 0, len(columns))
	for _, n := range columns {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignFooter: text.AlignRight})
	}
	return configs
}

func (s *Shell) renderProducts(products []domain.Product) {
	t := s.newTable()
	t.AppendHeader(table.Row{"ID", "Product", "Price", "Stock"})
	for _, p := range products {
		stock := any(p.Stock)
		if p.Stock == 0 {
			stock = "out of stock"
		}
		t.AppendRow(table.Row{p.ID, p.Name, p.Price.String(), stock})
	}
	t.SetColumnConfigs(rightAligned(3, 4))
	t.Render()
}

func (s *Shell) renderCart(cart *session.Cart) {
	t := s.newTable()
	t.AppendHeader(table.Row{"ID", "Product", "Qty", "Price", "Subtotal"})
	for _, e := range cart.Entries() {
		t.AppendRow(table.Row{e.ProductID, e.Name, e.Quantity, e.UnitPrice.String(), e.Subtotal().String()})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", cart.Total().String()})
	t.SetColumnConfigs(rightAligned(3, 4, 5))
	t.Render()
}

func (s *Shell) renderOrders(orders []domain.Order) {
	t := s.newTable()
	t.AppendHeader(table.Row{"Order", "Date", "Items", "Total", "Status"})
	for _, o := range orders {
		items := 0
		for _, line := range o.Lines {
			items += line.Quantity
		}
		t.AppendRow(table.Row{o.ID, o.CreatedAt.Format("2006-01-02 15:04:05"), items, o.Total.String(), o.Status})
	}
	t.SetColumnConfigs(rightAligned(3, 4))
	t.Render()
}

func (s *Shell) renderStats(stats []domain.ProductSales) {
	t := s.newTable()
	t.AppendHeader(table.Row{"Product", "Quantity Sold", "Revenue"})
	for _, st := range stats {
		t.AppendRow(table.Row{st.Name, st.QuantitySold, st.Revenue.String()})
	}
	t.SetColumnConfigs(rightAligned(2, 3))
	t.Render()

	s.printf("\nRevenue by product\n")
	for _, line := range revenueBars(stats, barWidth) {
		s.printf("%s\n", line)
	}
}

// revenueBars renders one bar per product scaled to the best seller.
func revenueBars(stats []domain.ProductSales, width int) []string {
	var top domain.Money
	nameWidth := 0
	for _, st := range stats {
		top = max(top, st.Revenue)
		nameWidth = max(nameWidth, text.RuneWidthWithoutEscSequences(st.Name))
	}

	lines := make([]string, 0, len(stats))
	for _, st := range stats {
		n := 0
		if top > 0 {
			q, _ := st.Revenue.Decimal().Mul(decimal.NewFromInt(int64(width))).QuoRem(top.Decimal(), 0)
			n = int(q.IntPart())
		}
		if n == 0 && st.Revenue > 0 {
			n = 1
		}
		name := text.Pad(st.Name, nameWidth, ' ')
		lines = append(lines, name+" | "+strings.Repeat("#", n)+" "+st.Revenue.String())
	}
	return lines
}
