// Package shell is the interactive terminal front end. It translates typed
// commands into ledger calls and prints the results; every failure is
// reported to the user and the loop keeps going.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"

	"github.com/joao-fontenele/retail-ledger/internal/domain"
	"github.com/joao-fontenele/retail-ledger/internal/session"
)

// Ledger is the subset of ledger operations the shell drives.
type Ledger interface {
	RegisterCustomer(ctx context.Context, username, password string) (int64, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	AddProduct(ctx context.Context, name string, price domain.Money, stock int) (int64, error)
	PlaceOrder(ctx context.Context, userID int64, cart domain.CartLines) (*domain.Order, error)
	SalesStatistics(ctx context.Context) ([]domain.ProductSales, error)
	ListOrders(ctx context.Context, userID int64) ([]domain.Order, error)
}

type access int

const (
	anyone access = iota
	anonymous
	customer
	admin
)

type command struct {
	usage  string
	about  string
	access access
	run    func(s *Shell, ctx context.Context, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"help":        {usage: "help", about: "show this help", run: (*Shell).help},
		"login":       {usage: "login <username> <password>", about: "log in", access: anonymous, run: (*Shell).login},
		"register":    {usage: "register <username> <password> <confirm>", about: "create a customer account", access: anonymous, run: (*Shell).register},
		"logout":      {usage: "logout", about: "log out and empty the cart", run: (*Shell).logout},
		"whoami":      {usage: "whoami", about: "show the current user", run: (*Shell).whoami},
		"products":    {usage: "products", about: "list the catalog", run: (*Shell).products},
		"add":         {usage: "add <product-id> <quantity>", about: "add a product to the cart", access: customer, run: (*Shell).add},
		"remove":      {usage: "remove <product-id>", about: "remove a product from the cart", access: customer, run: (*Shell).remove},
		"cart":        {usage: "cart", about: "show the cart", access: customer, run: (*Shell).cart},
		"checkout":    {usage: "checkout", about: "place the order and pay", access: customer, run: (*Shell).checkout},
		"orders":      {usage: "orders", about: "show your order history", access: customer, run: (*Shell).orders},
		"new-product": {usage: "new-product <price> <stock> <name...>", about: "add a product to the catalog", access: admin, run: (*Shell).newProduct},
		"stats":       {usage: "stats", about: "show sales statistics", access: admin, run: (*Shell).stats},
		"exit":        {usage: "exit", about: "leave the shell"},
	}
}

type Shell struct {
	ledger  Ledger
	session *session.Session
	catalog []domain.Product
	out     io.Writer
	logger  *slog.Logger
}

func New(l Ledger, out io.Writer, logger *slog.Logger) *Shell {
	sess := session.New()
	return &Shell{
		ledger:  l,
		session: sess,
		out:     out,
		logger:  logger.With("session_id", sess.ID),
	}
}

// Run reads commands until exit, EOF or interrupt.
func (s *Shell) Run(ctx context.Context, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            s.prompt(),
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		Stdout:            s.out,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	fmt.Fprintln(s.out, "Online Retail. Type 'help' for commands, 'exit' to quit.")

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return nil
			}
			return err
		}

		if !s.Exec(ctx, line) {
			return nil
		}
		rl.SetPrompt(s.prompt())

		if ctx.Err() != nil {
			return nil
		}
	}
}

// Exec runs one command line. It returns false when the shell should stop.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	name := strings.ToLower(fields[0])
	if name == "exit" || name == "quit" {
		return false
	}

	cmd, ok := commands[name]
	if !ok {
		s.printf("unknown command %q, type 'help' for the list\n", fields[0])
		return true
	}

	if err := s.allowed(cmd.access); err != nil {
		s.printf("error: %v\n", err)
		return true
	}

	if err := cmd.run(s, ctx, fields[1:]); err != nil {
		s.logger.Debug("command failed", "command", name, "error", err)
		s.printf("error: %v\n", err)
	}
	return true
}

func (s *Shell) allowed(a access) error {
	switch a {
	case anonymous:
		if s.session.LoggedIn() {
			return errors.New("log out first")
		}
	case customer:
		if !s.session.LoggedIn() {
			return errors.New("please log in first")
		}
		if s.session.IsAdmin() {
			return errors.New("administrators cannot shop")
		}
	case admin:
		if !s.session.IsAdmin() {
			return errors.New("administrator access required")
		}
	}
	return nil
}

func (s *Shell) prompt() string {
	if s.session.LoggedIn() {
		return s.session.User.Username + "> "
	}
	return "retail> "
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
