package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/eshaffer321/secondhand-go/internal/config"
	"github.com/eshaffer321/secondhand-go/internal/logging"
	"github.com/eshaffer321/secondhand-go/pkg/market"
	"github.com/pkg/errors"
)

const usage = `usage: marketctl [-env file] <command> [flags]

commands:
  login     -u username -p password
  signup    -u username -e email -p password
  logout
  whoami
  profile   [-email new] [-password new]
  products  list | get <id> | mine | seller <username> | delete <id>
            create -title t -desc d -price n -location l -category id [-image path]
            update <id> -title t -desc d -price n
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", describe(err))
		os.Exit(1)
	}
}

// run executes a single command and writes its JSON result to out
func run(ctx context.Context, args []string, out io.Writer) error {
	global := flag.NewFlagSet("marketctl", flag.ContinueOnError)
	envFile := global.String("env", ".env", "dotenv file to load")
	global.Usage = func() { fmt.Fprint(global.Output(), usage) }
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errors.New("missing command")
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}

	sugar := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer sugar.Sync()

	opts := &market.ClientOptions{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		SessionDB: cfg.SessionDB,
		Logger:    market.NewZapLogger(sugar),
		SentryDSN: cfg.SentryDSN,
	}
	if cfg.MaxRetries > 0 {
		opts.RetryConfig = &market.RetryConfig{
			MaxRetries: cfg.MaxRetries,
			RetryWait:  500 * time.Millisecond,
			MaxWait:    5 * time.Second,
		}
	}

	client, err := market.NewClient(opts)
	if err != nil {
		return err
	}
	defer client.Close()

	cmd, rest := global.Arg(0), global.Args()[1:]
	result, err := dispatch(ctx, client, cmd, rest)
	if err != nil {
		return err
	}
	return printJSON(out, result)
}

func dispatch(ctx context.Context, client *market.Client, cmd string, args []string) (interface{}, error) {
	switch cmd {
	case "login":
		fs := flag.NewFlagSet("login", flag.ContinueOnError)
		username := fs.String("u", "", "username")
		password := fs.String("p", "", "password")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return client.Auth.Login(ctx, *username, *password)

	case "signup":
		fs := flag.NewFlagSet("signup", flag.ContinueOnError)
		params := &market.SignupParams{}
		fs.StringVar(&params.Username, "u", "", "username")
		fs.StringVar(&params.Email, "e", "", "email")
		fs.StringVar(&params.Password, "p", "", "password")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return client.Auth.Signup(ctx, params)

	case "logout":
		if err := client.Auth.Logout(); err != nil {
			return nil, err
		}
		return map[string]string{"status": "logged out"}, nil

	case "whoami":
		return client.Auth.GetSession()

	case "profile":
		fs := flag.NewFlagSet("profile", flag.ContinueOnError)
		params := &market.UpdateProfileParams{}
		fs.StringVar(&params.Email, "email", "", "new email")
		fs.StringVar(&params.Password, "password", "", "new password")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if params.Email == "" && params.Password == "" {
			return client.Users.GetProfile(ctx)
		}
		return client.Users.UpdateProfile(ctx, params)

	case "products":
		return dispatchProducts(ctx, client, args)
	}

	return nil, errors.Errorf("unknown command %q", cmd)
}

func dispatchProducts(ctx context.Context, client *market.Client, args []string) (interface{}, error) {
	if len(args) == 0 {
		return nil, errors.New("missing products subcommand")
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		return client.Products.List(ctx)
	case "mine":
		return client.Products.Mine(ctx)
	case "seller":
		if len(rest) != 1 {
			return nil, errors.New("usage: products seller <username>")
		}
		return client.Products.ListBySeller(ctx, rest[0])
	case "get":
		if len(rest) != 1 {
			return nil, errors.New("usage: products get <id>")
		}
		return client.Products.Get(ctx, rest[0])
	case "delete":
		if len(rest) != 1 {
			return nil, errors.New("usage: products delete <id>")
		}
		return client.Products.Delete(ctx, rest[0])
	case "create":
		return createProduct(ctx, client, rest)
	case "update":
		if len(rest) < 1 {
			return nil, errors.New("usage: products update <id> [flags]")
		}
		fs := flag.NewFlagSet("update", flag.ContinueOnError)
		params := &market.UpdateProductParams{}
		fs.StringVar(&params.Title, "title", "", "title")
		fs.StringVar(&params.Description, "desc", "", "description")
		fs.IntVar(&params.Price, "price", 0, "price")
		if err := fs.Parse(rest[1:]); err != nil {
			return nil, err
		}
		return client.Products.Update(ctx, rest[0], params)
	}

	return nil, errors.Errorf("unknown products subcommand %q", sub)
}

func createProduct(ctx context.Context, client *market.Client, args []string) (interface{}, error) {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	params := &market.CreateProductParams{}
	fs.StringVar(&params.Title, "title", "", "title")
	fs.StringVar(&params.Description, "desc", "", "description")
	fs.IntVar(&params.Price, "price", 0, "price")
	fs.StringVar(&params.Location, "location", "", "location")
	fs.Int64Var(&params.CategoryID, "category", 0, "category id")
	imagePath := fs.String("image", "", "image file to upload")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *imagePath != "" {
		f, err := os.Open(*imagePath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open image")
		}
		defer f.Close()

		params.Image = &market.Image{
			Filename:    filepath.Base(*imagePath),
			ContentType: mime.TypeByExtension(filepath.Ext(*imagePath)),
			Content:     f,
		}
	}

	return client.Products.Create(ctx, params)
}

// describe turns well-known failures into a short message for the terminal
func describe(err error) string {
	switch market.KindOf(err) {
	case market.ErrorKindUnauthorized:
		return "not logged in or session rejected; run `marketctl login`"
	case market.ErrorKindForbidden:
		return "you are not allowed to modify this listing"
	case market.ErrorKindDuplicateUsername:
		return "that username is already taken"
	case market.ErrorKindDuplicateEmail:
		return "that email is already registered"
	case market.ErrorKindTransport:
		return fmt.Sprintf("backend unreachable: %v", err)
	}
	return err.Error()
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
