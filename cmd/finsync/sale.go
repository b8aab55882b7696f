package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hvescovi/finsync/internal/model"
	"github.com/hvescovi/finsync/internal/service"
	"github.com/hvescovi/finsync/internal/ui"
)

var productCmd = &cobra.Command{
	Use:     "product",
	GroupID: "data",
	Short:   "Manage products and stock",
}

var productAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a product",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		priceStr, _ := cmd.Flags().GetString("price")
		costStr, _ := cmd.Flags().GetString("cost")
		stock, _ := cmd.Flags().GetInt("stock")
		unit, _ := cmd.Flags().GetString("unit")
		categoryID, _ := cmd.Flags().GetString("category")

		price, err := parseMoney(priceStr)
		if err != nil {
			fatal(err)
		}
		var cost int64
		if costStr != "" {
			cost, err = parseMoney(costStr)
			if err != nil {
				fatal(err)
			}
		}

		p, err := app.sales.CreateProduct(service.ProductInput{
			BusinessID: app.finance.CurrentBusinessID(),
			Name:       args[0],
			Price:      price,
			Cost:       cost,
			Stock:      stock,
			Unit:       unit,
			CategoryID: categoryID,
		})
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s product %s at %s, %d in stock (%s)\n",
			ui.RenderPass("Created"), p.Name, money(p.Price), p.Stock, ui.RenderDim(p.ID))
	},
}

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products for the current business",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		products := app.sales.Products(app.finance.CurrentBusinessID())
		if len(products) == 0 {
			fmt.Println(ui.RenderDim("No products."))
			return
		}
		for _, p := range products {
			name := p.Name
			if !p.Active {
				name += " " + ui.RenderDim("(inactive)")
			}
			stock := strconv.Itoa(p.Stock)
			if p.Stock <= 0 {
				stock = ui.RenderError(stock)
			}
			fmt.Printf("  %-24s %10s  stock %-6s sold %-5d %s\n",
				name, money(p.Price), stock, p.TotalSold, ui.RenderDim(p.ID))
		}
	},
}

var productStockCmd = &cobra.Command{
	Use:   "stock <id> <delta>",
	Short: "Adjust product stock by a signed amount",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		delta, err := strconv.Atoi(args[1])
		if err != nil {
			fatal(fmt.Errorf("delta must be an integer: %w", err))
		}
		p, err := app.sales.AdjustStock(args[0], delta)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s stock for %s is now %d\n", ui.RenderPass("Adjusted"), p.Name, p.Stock)
	},
}

var customerCmd = &cobra.Command{
	Use:     "customer",
	GroupID: "data",
	Short:   "Manage customers",
}

var customerAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a customer",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		phone, _ := cmd.Flags().GetString("phone")
		email, _ := cmd.Flags().GetString("email")

		c, err := app.sales.CreateCustomer(service.CustomerInput{
			BusinessID: app.finance.CurrentBusinessID(),
			Name:       args[0],
			Phone:      phone,
			Email:      email,
		})
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s customer %s (%s)\n", ui.RenderPass("Created"), c.Name, ui.RenderDim(c.ID))
	},
}

var customerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customers with purchase stats",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		customers := app.sales.Customers(app.finance.CurrentBusinessID())
		if len(customers) == 0 {
			fmt.Println(ui.RenderDim("No customers."))
			return
		}
		for _, c := range customers {
			last := ui.RenderDim("never")
			if c.LastPurchase != nil {
				last = c.LastPurchase.Format("2006-01-02")
			}
			fmt.Printf("  %-24s %d purchases, %s spent, last %s  %s\n",
				c.Name, c.TotalPurchases, money(c.TotalSpent), last, ui.RenderDim(c.ID))
		}
	},
}

var saleCmd = &cobra.Command{
	Use:     "sale",
	GroupID: "data",
	Short:   "Record and manage sales",
}

var saleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a sale",
	Long: `Record a sale of one or more products.

Each --item takes "product-id:quantity" or "product-id:quantity:price"
to override the product's list price for this sale. Stock is checked
before anything is written; an insufficient line rejects the whole sale.

Examples:
  finsync sale add --item prod-1:2
  finsync sale add --item prod-1:1 --item prod-2:3 --customer cust-9
  finsync sale add --item prod-1:1 --installments 3 --due "next month"`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		itemSpecs, _ := cmd.Flags().GetStringArray("item")
		customerID, _ := cmd.Flags().GetString("customer")
		discountStr, _ := cmd.Flags().GetString("discount")
		paidStr, _ := cmd.Flags().GetString("paid")
		installments, _ := cmd.Flags().GetInt("installments")
		dueStr, _ := cmd.Flags().GetString("due")
		accountID, _ := cmd.Flags().GetString("account")
		notes, _ := cmd.Flags().GetString("notes")

		if len(itemSpecs) == 0 {
			fatal(errors.New("at least one --item is required"))
		}
		items := make([]service.SaleItemInput, 0, len(itemSpecs))
		for _, spec := range itemSpecs {
			item, err := parseSaleItem(spec)
			if err != nil {
				fatal(err)
			}
			items = append(items, item)
		}

		var discount, paid int64
		if discountStr != "" {
			if discount, err = parseMoney(discountStr); err != nil {
				fatal(err)
			}
		}
		if paidStr != "" {
			if paid, err = parseMoney(paidStr); err != nil {
				fatal(err)
			}
		}
		var due *time.Time
		if dueStr != "" {
			d, err := parseDate(dueStr)
			if err != nil {
				fatal(err)
			}
			due = &d
		}

		sale, err := app.sales.CreateSale(service.SaleInput{
			BusinessID:     app.finance.CurrentBusinessID(),
			CustomerID:     customerID,
			Items:          items,
			Discount:       discount,
			Installments:   installments,
			DueDate:        due,
			AccountID:      accountID,
			Notes:          notes,
			Date:           time.Now(),
			InitialPayment: paid,
		})
		if err != nil {
			var stockErr *service.InsufficientStockError
			if errors.As(err, &stockErr) {
				fatal(fmt.Errorf("not enough stock of %s: want %d, have %d",
					stockErr.ProductName, stockErr.Requested, stockErr.Available))
			}
			fatal(err)
		}

		fmt.Printf("%s sale of %s (%s)\n",
			ui.RenderPass("Recorded"), money(sale.TotalAmount), ui.RenderDim(sale.ID))
		for _, item := range sale.Items {
			fmt.Printf("  %dx %-22s %10s\n", item.Quantity, item.ProductName, money(item.Total))
		}
		if sale.RemainingAmount > 0 {
			fmt.Printf("  %s remaining", money(sale.RemainingAmount))
			if sale.Installments > 1 {
				fmt.Printf(" in %d installments of %s", sale.Installments, money(sale.InstallmentValue))
			}
			fmt.Println()
		}
	},
}

var saleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sales for the current business",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		sales := app.sales.Sales(app.finance.CurrentBusinessID())
		if len(sales) == 0 {
			fmt.Println(ui.RenderDim("No sales."))
			return
		}
		for _, s := range sales {
			who := s.CustomerName
			if who == "" {
				who = ui.RenderDim("walk-in")
			}
			status := s.Status
			switch s.Status {
			case model.SaleCancelled:
				status = ui.RenderError(status)
			case model.SalePaid:
				status = ui.RenderPass(status)
			}
			fmt.Printf("  %s  %10s  %-20s %-10s %s\n",
				s.Date.Format("2006-01-02"), money(s.TotalAmount), who,
				status, ui.RenderDim(s.ID))
		}

		stats := app.sales.Stats(app.finance.CurrentBusinessID())
		fmt.Printf("\n  %s %d sales, %s received, %s outstanding\n",
			ui.RenderAccent("Total:"), stats.Count,
			money(stats.Revenue), money(stats.Outstanding))
	},
}

var salePayCmd = &cobra.Command{
	Use:   "pay <sale-id>",
	Short: "Record a payment against a sale",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		amountStr, _ := cmd.Flags().GetString("amount")
		accountID, _ := cmd.Flags().GetString("account")
		notes, _ := cmd.Flags().GetString("notes")

		amount, err := parseMoney(amountStr)
		if err != nil {
			fatal(err)
		}

		sale, err := app.sales.RegisterPayment(args[0], amount, time.Now(), accountID, notes)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s payment; %s paid of %s\n",
			ui.RenderPass("Recorded"), money(sale.PaidAmount), money(sale.TotalAmount))
	},
}

var saleCancelCmd = &cobra.Command{
	Use:   "cancel <sale-id>",
	Short: "Cancel a sale and restore its stock",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal(err)
		}
		defer app.Close()

		sale, err := app.sales.CancelSale(args[0])
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s sale %s; stock restored\n", ui.RenderWarn("Cancelled"), sale.ID)
	},
}

// parseSaleItem parses "product-id:qty" or "product-id:qty:price".
func parseSaleItem(spec string) (service.SaleItemInput, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return service.SaleItemInput{}, fmt.Errorf("item %q must be product-id:quantity[:price]", spec)
	}
	qty, err := strconv.Atoi(parts[1])
	if err != nil || qty <= 0 {
		return service.SaleItemInput{}, fmt.Errorf("item %q has an invalid quantity", spec)
	}
	item := service.SaleItemInput{ProductID: parts[0], Quantity: qty}
	if len(parts) == 3 {
		price, ok := parseSalePrice(parts[2])
		if !ok {
			return service.SaleItemInput{}, fmt.Errorf("item %q has an invalid price", spec)
		}
		item.Price = price
	}
	return item, nil
}

func parseSalePrice(s string) (int64, bool) {
	cents, err := parseMoney(s)
	if err != nil {
		return 0, false
	}
	return cents, true
}

func init() {
	productAddCmd.Flags().String("price", "", "Unit price in major units (required)")
	productAddCmd.Flags().String("cost", "", "Unit cost in major units")
	productAddCmd.Flags().Int("stock", 0, "Initial stock")
	productAddCmd.Flags().String("unit", "", "Unit of measure (un, kg, h)")
	productAddCmd.Flags().String("category", "", "Product category ID")
	_ = productAddCmd.MarkFlagRequired("price")

	customerAddCmd.Flags().String("phone", "", "Contact phone")
	customerAddCmd.Flags().String("email", "", "Contact email")

	saleAddCmd.Flags().StringArray("item", nil, "Sale line as product-id:quantity[:price] (repeatable)")
	saleAddCmd.Flags().String("customer", "", "Customer ID")
	saleAddCmd.Flags().String("discount", "", "Discount in major units")
	saleAddCmd.Flags().String("paid", "", "Initial payment in major units")
	saleAddCmd.Flags().Int("installments", 0, "Split the remainder into N installments")
	saleAddCmd.Flags().String("due", "", "First due date (ISO or natural language)")
	saleAddCmd.Flags().String("account", "", "Account receiving the payment")
	saleAddCmd.Flags().String("notes", "", "Free-form notes")

	salePayCmd.Flags().String("amount", "", "Payment amount in major units (required)")
	salePayCmd.Flags().String("account", "", "Account receiving the payment")
	salePayCmd.Flags().String("notes", "", "Payment notes")
	_ = salePayCmd.MarkFlagRequired("amount")

	productCmd.AddCommand(productAddCmd)
	productCmd.AddCommand(productListCmd)
	productCmd.AddCommand(productStockCmd)
	rootCmd.AddCommand(productCmd)

	customerCmd.AddCommand(customerAddCmd)
	customerCmd.AddCommand(customerListCmd)
	rootCmd.AddCommand(customerCmd)

	saleCmd.AddCommand(saleAddCmd)
	saleCmd.AddCommand(saleListCmd)
	saleCmd.AddCommand(salePayCmd)
	saleCmd.AddCommand(saleCancelCmd)
	rootCmd.AddCommand(saleCmd)
}
