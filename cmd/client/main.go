// Command client is a command line front end for the ordering API. It keeps
// a bearer token on disk between invocations and exposes the catalog, cart
// and notification endpoints as subcommands.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mealio/ordering-api/internal/client"
	"github.com/mealio/ordering-api/internal/platform/redispub"
)

func main() {
	baseURL := flag.String("api", envOr("ORDERING_API_URL", "http://localhost:8080/api"), "API base URL")
	tokenPath := flag.String("token-file", os.Getenv("ORDERING_TOKEN_FILE"), "token file path (default ~/.ordering-token)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	tokens, err := client.NewFileTokenStore(*tokenPath)
	if err != nil {
		fatal(err)
	}
	session := client.NewSession(client.New(*baseURL), tokens)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, session, args[0], args[1:]); err != nil {
		fatal(err)
	}
}

func run(ctx context.Context, session *client.Session, command string, args []string) error {
	// register, login and success-login work from any state; everything else
	// needs a restored session.
	switch command {
	case "register":
		return cmdRegister(ctx, session, args)
	case "login":
		return cmdLogin(ctx, session, args)
	case "success-login":
		return cmdSuccessLogin(ctx, session, args)
	}

	if err := session.Restore(ctx); err != nil {
		if errors.Is(err, client.ErrServiceUnavailable) {
			return errors.New("service unavailable, please try again later")
		}
		return err
	}
	if session.State() != client.StateAuthenticated {
		return errors.New("not logged in, run: client login <email> <password>")
	}

	switch command {
	case "logout":
		if err := session.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	case "profile":
		u := session.User()
		fmt.Printf("%s <%s>\n", u.Name, u.Email)
		return nil
	case "products":
		return cmdProducts(ctx, session)
	case "product":
		return cmdProduct(ctx, session, args)
	case "add-to-cart":
		return cmdAddToCart(ctx, session, args)
	case "carts":
		return cmdCarts(ctx, session)
	case "remove":
		return cmdRemove(ctx, session, args)
	case "notifications":
		return cmdNotifications(ctx, session, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func cmdRegister(ctx context.Context, session *client.Session, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: client register <name> <email> <password>")
	}
	user, err := session.Register(ctx, args[0], args[1], args[2], args[2])
	if err != nil {
		return describe(err)
	}
	fmt.Printf("Registered and logged in as %s\n", user.Email)
	return nil
}

func cmdLogin(ctx context.Context, session *client.Session, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: client login <email> <password>")
	}
	user, err := session.Login(ctx, args[0], args[1])
	if err != nil {
		return describe(err)
	}
	fmt.Printf("Logged in as %s\n", user.Email)
	return nil
}

func cmdSuccessLogin(ctx context.Context, session *client.Session, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: client success-login <handoff-token>")
	}
	user, err := session.CompleteHandoff(ctx, args[0])
	if err != nil {
		return describe(err)
	}
	fmt.Printf("Logged in as %s\n", user.Email)
	return nil
}

func cmdProducts(ctx context.Context, session *client.Session) error {
	products, err := session.Client().Products(ctx)
	if err != nil {
		return describe(err)
	}
	for _, p := range products {
		fmt.Printf("%s  %-30s  %8.2f  (qty %d)\n", p.ID, p.Name, p.Price, p.Quantity)
	}
	return nil
}

func cmdProduct(ctx context.Context, session *client.Session, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: client product <id>")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid product id: %w", err)
	}
	p, err := session.Client().ProductDetail(ctx, id)
	if err != nil {
		return describe(err)
	}
	fmt.Printf("%s\n%s\nPrice: %.2f (was %.2f)\nQuantity: %d\n", p.Name, p.Description, p.Price, p.OldPrice, p.Quantity)
	if p.User != nil {
		fmt.Printf("Seller: %s\n", p.User.Name)
	}
	return nil
}

func cmdAddToCart(ctx context.Context, session *client.Session, args []string) error {
	fs := flag.NewFlagSet("add-to-cart", flag.ContinueOnError)
	quantity := fs.Int("quantity", 1, "quantity to add")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: client add-to-cart [-quantity N] <product-id>")
	}
	id, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid product id: %w", err)
	}
	_, message, err := session.Client().AddToCart(ctx, id, *quantity)
	if err != nil {
		return describe(err)
	}
	fmt.Println(message)
	return nil
}

func cmdCarts(ctx context.Context, session *client.Session) error {
	items, err := session.Client().Carts(ctx)
	if err != nil {
		return describe(err)
	}
	for _, item := range items {
		name := item.ProductID.String()
		if item.Product != nil {
			name = item.Product.Name
		}
		fmt.Printf("%s  %-30s  x%d\n", item.ID, name, item.Quantity)
	}
	return nil
}

func cmdRemove(ctx context.Context, session *client.Session, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: client remove <cart-item-id> [cart-item-id...]")
	}
	ids := make([]uuid.UUID, 0, len(args))
	for _, arg := range args {
		id, err := uuid.Parse(arg)
		if err != nil {
			return fmt.Errorf("invalid cart item id %q: %w", arg, err)
		}
		ids = append(ids, id)
	}

	var message string
	var err error
	if len(ids) == 1 {
		message, err = session.Client().DeleteCartItem(ctx, ids[0])
	} else {
		message, err = session.Client().DeleteCartItems(ctx, ids)
	}
	if err != nil {
		return describe(err)
	}
	fmt.Println(message)
	return nil
}

func cmdNotifications(ctx context.Context, session *client.Session, args []string) error {
	fs := flag.NewFlagSet("notifications", flag.ContinueOnError)
	watch := fs.Bool("watch", false, "subscribe to live notifications")
	redisAddr := fs.String("redis", envOr("ORDERING_REDIS_ADDR", "localhost:6379"), "redis address for -watch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := session.Client().Notifications(ctx)
	if err != nil {
		return describe(err)
	}
	for _, n := range list {
		fmt.Printf("%s  %-14s  %s\n", n.CreatedAt.Format("2006-01-02 15:04"), n.Type, n.Data)
	}

	if !*watch {
		return nil
	}
	return watchNotifications(ctx, *redisAddr, session.User().ID.String())
}

// watchNotifications subscribes to the user's pub/sub channel and prints
// events until interrupted.
func watchNotifications(ctx context.Context, redisAddr, userID string) error {
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer func() { _ = rdb.Close() }()

	sub := rdb.Subscribe(ctx, redispub.ChannelFor(userID))
	defer func() { _ = sub.Close() }()

	fmt.Println("Watching for notifications, press Ctrl-C to stop...")
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			fmt.Println(msg.Payload)
		}
	}
}

// describe turns client errors into readable terminal output, listing field
// errors when the server sent them.
func describe(err error) error {
	if errors.Is(err, client.ErrServiceUnavailable) {
		return errors.New("service unavailable, please try again later")
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if len(apiErr.FieldErrors) == 0 {
			return errors.New(apiErr.Message)
		}
		fields := make([]string, 0, len(apiErr.FieldErrors))
		for field := range apiErr.FieldErrors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		msg := apiErr.Message
		for _, field := range fields {
			for _, m := range apiErr.FieldErrors[field] {
				msg += "\n  " + field + ": " + m
			}
		}
		return errors.New(msg)
	}
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: client [flags] <command> [args]

commands:
  register <name> <email> <password>
  login <email> <password>
  success-login <handoff-token>
  logout
  profile
  products
  product <id>
  add-to-cart [-quantity N] <product-id>
  carts
  remove <cart-item-id> [cart-item-id...]
  notifications [-watch] [-redis addr]`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
