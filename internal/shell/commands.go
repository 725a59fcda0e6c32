package shell

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/joao-fontenele/retail-ledger/internal/domain"
)

func (s *Shell) help(_ context.Context, _ []string) error {
	names := make([]string, 0, len(commands))
	for name, cmd := range commands {
		if s.allowed(cmd.access) == nil {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	for _, name := range names {
		cmd := commands[name]
		s.printf("  %-42s %s\n", cmd.usage, cmd.about)
	}
	return nil
}

func (s *Shell) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("please enter both username and password")
	}

	user, err := s.ledger.Authenticate(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	s.session.Login(user)
	s.logger.Info("session logged in", "user_id", user.ID, "role", user.Role)
	s.printf("welcome, %s\n", user.Username)

	if !user.IsAdmin() {
		return s.products(ctx, nil)
	}
	return nil
}

func (s *Shell) register(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("please fill all fields: register <username> <password> <confirm>")
	}
	if args[1] != args[2] {
		return errors.New("passwords do not match")
	}

	if _, err := s.ledger.RegisterCustomer(ctx, args[0], args[1]); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return errors.New("username already exists, choose another")
		}
		return err
	}

	s.printf("registration successful, please log in\n")
	return nil
}

func (s *Shell) logout(_ context.Context, _ []string) error {
	if !s.session.LoggedIn() {
		return errors.New("not logged in")
	}
	s.logger.Info("session logged out", "user_id", s.session.User.ID)
	s.session.Logout()
	s.catalog = nil
	s.printf("logged out\n")
	return nil
}

func (s *Shell) whoami(_ context.Context, _ []string) error {
	if !s.session.LoggedIn() {
		s.printf("not logged in\n")
		return nil
	}
	s.printf("%s (%s)\n", s.session.User.Username, s.session.User.Role)
	return nil
}

func (s *Shell) products(ctx context.Context, _ []string) error {
	products, err := s.ledger.ListProducts(ctx)
	if err != nil {
		return err
	}
	s.catalog = products
	s.renderProducts(products)
	return nil
}

func (s *Shell) add(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: add <product-id> <quantity>")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil || qty < 1 {
		return errors.New("quantity must be a positive integer")
	}

	product, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}

	if err := s.session.Cart.Add(product, qty); err != nil {
		var stockErr *domain.StockError
		if errors.As(err, &stockErr) {
			if stockErr.Available <= 0 {
				return fmt.Errorf("the product '%s' is out of stock", product.Name)
			}
			return fmt.Errorf("quantity exceeds available stock for '%s' (available %d)", product.Name, stockErr.Available)
		}
		return err
	}

	s.printf("added %d x %s, cart total %s\n", qty, product.Name, s.session.Cart.Total())
	return nil
}

// lookup finds a product in the last displayed catalog, reloading it once
// when the id is not there.
func (s *Shell) lookup(ctx context.Context, id int64) (domain.Product, error) {
	find := func() (domain.Product, bool) {
		i := slices.IndexFunc(s.catalog, func(p domain.Product) bool { return p.ID == id })
		if i < 0 {
			return domain.Product{}, false
		}
		return s.catalog[i], true
	}

	if p, ok := find(); ok {
		return p, nil
	}

	products, err := s.ledger.ListProducts(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	s.catalog = products

	if p, ok := find(); ok {
		return p, nil
	}
	return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrProductNotFound)
}

func (s *Shell) remove(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("please select an item to remove: remove <product-id>")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}

	if err := s.session.Cart.Remove(id); err != nil {
		return err
	}

	s.printf("removed, cart total %s\n", s.session.Cart.Total())
	return nil
}

func (s *Shell) cart(_ context.Context, _ []string) error {
	if s.session.Cart.Len() == 0 {
		s.printf("your cart is empty\n")
		return nil
	}
	s.renderCart(s.session.Cart)
	return nil
}

func (s *Shell) checkout(ctx context.Context, _ []string) error {
	cart := s.session.Cart
	if cart.Len() == 0 {
		return errors.New("your cart is empty")
	}

	lines := cart.Lines()
	order, err := s.ledger.PlaceOrder(ctx, s.session.User.ID, lines)
	if err != nil {
		var stockErr *domain.StockError
		if errors.As(err, &stockErr) {
			return fmt.Errorf("insufficient stock for '%s', available: %d", lines[stockErr.ProductID].Name, stockErr.Available)
		}
		return err
	}

	cart.Clear()
	s.printf("order #%d placed and payment done successfully, total %s\n", order.ID, order.Total)

	return s.products(ctx, nil)
}

func (s *Shell) orders(ctx context.Context, _ []string) error {
	list, err := s.ledger.ListOrders(ctx, s.session.User.ID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		s.printf("no orders yet\n")
		return nil
	}
	s.renderOrders(list)
	return nil
}

func (s *Shell) newProduct(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return errors.New("please enter product price, stock quantity and name")
	}

	price, err := domain.ParseMoney(args[0])
	if err != nil || price < 0 {
		return errors.New("price must be a non-negative amount with at most two decimals")
	}
	stock, err := strconv.Atoi(args[1])
	if err != nil || stock < 0 {
		return errors.New("stock must be a non-negative integer")
	}
	name := strings.Join(args[2:], " ")

	id, err := s.ledger.AddProduct(ctx, name, price, stock)
	if err != nil {
		return err
	}

	s.printf("product '%s' added successfully with id %d\n", name, id)
	return nil
}

func (s *Shell) stats(ctx context.Context, _ []string) error {
	stats, err := s.ledger.SalesStatistics(ctx)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		s.printf("no products in the catalog\n")
		return nil
	}
	s.renderStats(stats)
	return nil
}
