// Package view renders shell state as plain text.
package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/flicky/storefront/internal/model"
	"github.com/flicky/storefront/internal/shell"
)

var titles = map[shell.View]string{
	shell.ViewLogin:      "Login",
	shell.ViewRegister:   "Register",
	shell.ViewDashboard:  "Dashboard",
	shell.ViewCatalog:    "Products",
	shell.ViewAddProduct: "Add Product",
	shell.ViewCheckout:   "Checkout",
	shell.ViewMyOrders:   "My Orders",
	shell.ViewAllOrders:  "All Orders",
}

func Title(v shell.View) string {
	if t, ok := titles[v]; ok {
		return t
	}
	return string(v)
}

// Render writes the navigation bar, notice and body of the current view.
// Admin views are never drawn for a non-admin session.
func Render(w io.Writer, st shell.State) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	renderNav(tw, st)
	if st.User != nil {
		fmt.Fprintf(tw, "Welcome, %s!\n", st.User.Name)
	}
	if st.Notice != "" {
		fmt.Fprintf(tw, "! %s\n", st.Notice)
	}
	fmt.Fprintln(tw)

	if !shell.CanView(st.User, st.View) {
		fmt.Fprintln(tw, refusal(st))
		return tw.Flush()
	}

	switch st.View {
	case shell.ViewLogin:
		fmt.Fprintln(tw, "Log in:  login <email> <password>")
		fmt.Fprintln(tw, "No account yet?  go register")
	case shell.ViewRegister:
		fmt.Fprintln(tw, "Create an account:  register <name> <email> <password>")
		fmt.Fprintln(tw, "Already registered?  go login")
	case shell.ViewDashboard:
		renderDashboard(tw, st)
	case shell.ViewCatalog:
		renderCatalog(tw, st)
	case shell.ViewAddProduct:
		fmt.Fprintln(tw, "new-product <name> <description> <price> <category> <stock> <image-url>")
		fmt.Fprintln(tw, `Quote values containing spaces, e.g. new-product "Desk Lamp" "LED, dimmable" 1499 Home 10 https://...`)
	case shell.ViewCheckout:
		renderCheckout(tw, st.Draft)
	case shell.ViewMyOrders:
		renderOrders(tw, st.Orders, false)
	case shell.ViewAllOrders:
		renderOrders(tw, st.Orders, true)
	}
	return tw.Flush()
}

func renderNav(w io.Writer, st shell.State) {
	items := make([]string, 0, len(st.Nav))
	for _, v := range st.Nav {
		label := Title(v)
		if v == st.View {
			label = "[" + label + "]"
		}
		items = append(items, label)
	}
	fmt.Fprintf(w, "== Storefront ==  %s\n", strings.Join(items, " | "))
}

func refusal(st shell.State) string {
	if st.User == nil {
		return "Please log in to continue."
	}
	return "You do not have permission to view this page."
}

func renderDashboard(w io.Writer, st shell.State) {
	fmt.Fprintln(w, "Browse the catalog with `go catalog` or see your orders with `go orders`.")
	if st.User.IsAdmin() {
		fmt.Fprintln(w, "Admin: `go add-product` to list a new product, `go all-orders` to manage orders.")
	}
}

func renderCatalog(w io.Writer, st shell.State) {
	if len(st.Products) == 0 {
		fmt.Fprintln(w, "No products available.")
		return
	}
	fmt.Fprintln(w, "#\tID\tNAME\tCATEGORY\tPRICE\tSTOCK\tQTY")
	for i, p := range st.Products {
		stock := fmt.Sprint(p.Stock)
		if !p.InStock() {
			stock = "Out of Stock"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			i+1, shortID(p.ID), p.Name, dash(p.Category), Money(p.Price), stock, st.Quantities[p.ID])
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "qty <#> <n>, add <#>, remove <#>, then checkout")
}

func renderCheckout(w io.Writer, draft *model.OrderDraft) {
	if draft == nil {
		fmt.Fprintln(w, "Nothing to check out.")
		return
	}
	fmt.Fprintf(w, "Order for %s\n\n", draft.UserEmail)
	fmt.Fprintln(w, "PRODUCT\tQTY\tPRICE\tSUBTOTAL")
	for _, item := range draft.Items {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", item.ProductName, item.Quantity, Money(item.Price), Money(item.Subtotal()))
	}
	fmt.Fprintf(w, "\t\tTotal\t%s\n\n", Money(draft.Total))
	fmt.Fprintln(w, "confirm to place the order, cancel to go back")
}

func renderOrders(w io.Writer, orders []model.Order, admin bool) {
	if len(orders) == 0 {
		if admin {
			fmt.Fprintln(w, "No orders found.")
		} else {
			fmt.Fprintln(w, "You have no orders yet.")
		}
		return
	}

	header := "#\tORDER\tDATE\tITEMS\tTOTAL\tSTATUS"
	if admin {
		header = "#\tORDER\tCUSTOMER\tDATE\tITEMS\tTOTAL\tSTATUS"
	}
	fmt.Fprintln(w, header)
	for i, o := range orders {
		cols := []string{fmt.Sprint(i + 1), o.ShortID() + "..."}
		if admin {
			cols = append(cols, customer(o.User))
		}
		cols = append(cols, date(o), items(o.Items), Money(o.TotalAmount), string(o.Status))
		fmt.Fprintln(w, strings.Join(cols, "\t"))
	}
	if admin {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "status <#> <%s>\n", strings.Join(statusNames(), "|"))
	}
}

// Money formats an amount the way every price in the storefront is shown.
func Money(d decimal.Decimal) string {
	return "Rs" + d.StringFixed(2)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func customer(u model.User) string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	default:
		return dash(u.ID)
	}
}

func date(o model.Order) string {
	if o.CreatedAt.IsZero() {
		return "-"
	}
	return o.CreatedAt.Local().Format("2006-01-02 15:04")
}

func items(lines []model.OrderItem) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		name := l.ProductName
		if name == "" {
			name = "(removed product)"
		}
		parts = append(parts, fmt.Sprintf("%s x%d", name, l.Quantity))
	}
	return dash(strings.Join(parts, ", "))
}

func statusNames() []string {
	names := make([]string, len(model.OrderStatuses))
	for i, s := range model.OrderStatuses {
		names[i] = string(s)
	}
	return names
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
