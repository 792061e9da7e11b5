package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/atinyakov/brownies/internal/client"
)

var (
	version   string
	buildDate string
)

// options collects the command-line flags of all commands.
type options struct {
	cmd         string
	baseURL     string
	sessionFile string
	username    string
	name        string
	password    string
	userID      string
	productID   string
	quantity    int
	productName string
	description string
	price       float64
}

// run dispatches a single command against the server.
func run(ctx context.Context, c *client.Client, session *client.Session, o options) error {
	switch o.cmd {
	case "signup":
		if o.username == "" {
			return fmt.Errorf("please provide -user=username")
		}
		password, err := passwordOrPrompt(o.password, "Password")
		if err != nil {
			return err
		}
		confirm, err := passwordOrPrompt(o.password, "Confirm password")
		if err != nil {
			return err
		}
		if err := c.Signup(ctx, o.username, o.name, password, confirm); err != nil {
			return err
		}
		fmt.Println("User created")
	case "login":
		if o.username == "" {
			return fmt.Errorf("please provide -user=username")
		}
		password, err := passwordOrPrompt(o.password, "Password")
		if err != nil {
			return err
		}
		token, err := c.Login(ctx, o.username, password)
		if err != nil {
			return err
		}
		session.Set(o.username, token)
		if err := session.Save(); err != nil {
			return err
		}
		fmt.Println("Logged in as", o.username)
	case "logout":
		session.Clear()
		return session.Save()
	case "product":
		p, err := c.CreateProduct(ctx, session.Token, o.productName, o.description, o.price)
		if err != nil {
			return err
		}
		return printJSON(p)
	case "products":
		products, err := c.ListProducts(ctx)
		if err != nil {
			return err
		}
		return printJSON(products)
	case "add":
		if o.productID == "" {
			return fmt.Errorf("please provide -product=id")
		}
		if err := c.AddToCart(ctx, session.Token, cartOwner(o, session), o.productID, o.quantity); err != nil {
			return err
		}
		fmt.Println("Product added to cart")
	case "cart":
		cart, err := c.GetCart(ctx, session.Token, cartOwner(o, session))
		if err != nil {
			return err
		}
		return printJSON(cart)
	case "checkout":
		if err := c.Checkout(ctx, session.Token, cartOwner(o, session)); err != nil {
			return err
		}
		fmt.Println("Cart checked out")
	default:
		return fmt.Errorf("unknown command: %s", o.cmd)
	}
	return nil
}

// cartOwner defaults the cart to the logged in user.
func cartOwner(o options, session *client.Session) string {
	if o.userID != "" {
		return o.userID
	}
	return session.Username
}

var stdin = bufio.NewReader(os.Stdin)

func passwordOrPrompt(password, label string) (string, error) {
	if password != "" {
		return password, nil
	}
	return client.Prompt(stdin, os.Stdout, label)
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

// main parses command-line flags and dispatches the selected command.
func main() {
	var (
		o       options
		showVer bool
	)

	flag.StringVar(&o.cmd, "cmd", "", "command: signup | login | logout | product | products | add | cart | checkout")
	flag.StringVar(&o.baseURL, "url", "http://localhost:3000", "server base URL")
	flag.StringVar(&o.sessionFile, "session", client.DefaultSessionFile, "path to session file")
	flag.StringVar(&o.username, "user", "", "username for signup and login")
	flag.StringVar(&o.name, "name", "", "display name for signup")
	flag.StringVar(&o.password, "password", "", "password (prompted when empty)")
	flag.StringVar(&o.userID, "cart", "", "cart owner (defaults to the logged in user)")
	flag.StringVar(&o.productID, "product", "", "product id to add to the cart")
	flag.IntVar(&o.quantity, "qty", 1, "quantity to add to the cart")
	flag.StringVar(&o.productName, "pname", "", "name of the product to create")
	flag.StringVar(&o.description, "pdesc", "", "description of the product to create")
	flag.Float64Var(&o.price, "price", 0, "price of the product to create")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("Brownies Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	session, err := client.LoadSession(o.sessionFile)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, client.New(o.baseURL), session, o); err != nil {
		log.Fatal(err)
	}
}
