// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON config file and
// environment variables.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"port"`

	// UsersFile is the path of the JSON file holding registered users.
	UsersFile string `json:"users_file"`

	// JWTSecret is the shared secret used to sign session tokens.
	JWTSecret string `json:"jwt_secret"`

	// TokenTTL is the lifetime of an issued session token.
	TokenTTL time.Duration `json:"-"`

	// BcryptCost is the bcrypt cost factor used when hashing passwords.
	BcryptCost int `json:"bcrypt_cost"`

	// LogLevel is the minimal level of emitted log entries.
	LogLevel string `json:"log_level"`

	// ShutdownTimeout bounds graceful shutdown of the HTTP server.
	ShutdownTimeout time.Duration `json:"-"`

	// RequireAuthProducts puts POST /products behind the token gate.
	RequireAuthProducts bool `json:"products_require_auth"`

	// RequireAuthCheckout puts POST /cart/{userID}/checkout behind the token gate.
	RequireAuthCheckout bool `json:"checkout_require_auth"`

	// EnforceCartOwner rejects cart requests whose token username
	// differs from the {userID} path parameter.
	EnforceCartOwner bool `json:"cart_enforce_owner"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// Default values used when neither flags, config file nor environment set an option.
const (
	DefaultPort            = ":3000"
	DefaultUsersFile       = "usuarios.json"
	DefaultJWTSecret       = "jwtSecretKey"
	DefaultTokenTTL        = time.Hour
	DefaultBcryptCost      = 10
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 10 * time.Second
)

// Parse loads the .env file if present and parses os.Args and the
// environment. It terminates the process on invalid configuration.
func Parse() *Options {
	if err := godotenv.Load(".env"); err == nil {
		log.Println("loaded .env file")
	}

	options, err := ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return options
}

// ParseArgs parses the given command-line arguments, then the JSON config
// file (if it exists), then environment variables, each overriding the
// previous source.
func ParseArgs(args []string) (*Options, error) {
	options := &Options{}

	fs := flag.NewFlagSet("brownies", flag.ContinueOnError)
	fs.StringVar(&options.Port, "a", DefaultPort, "run on ip:port server")
	fs.StringVar(&options.UsersFile, "u", DefaultUsersFile, "path to users file")
	fs.StringVar(&options.JWTSecret, "s", DefaultJWTSecret, "token signing secret")
	fs.DurationVar(&options.TokenTTL, "ttl", DefaultTokenTTL, "session token lifetime")
	fs.IntVar(&options.BcryptCost, "cost", DefaultBcryptCost, "bcrypt cost factor")
	fs.StringVar(&options.LogLevel, "l", DefaultLogLevel, "log level")
	fs.DurationVar(&options.ShutdownTimeout, "shutdown-timeout", DefaultShutdownTimeout, "graceful shutdown timeout")
	fs.BoolVar(&options.RequireAuthProducts, "products-auth", false, "require a token to create products")
	fs.BoolVar(&options.RequireAuthCheckout, "checkout-auth", false, "require a token to check out a cart")
	fs.BoolVar(&options.EnforceCartOwner, "cart-owner", false, "only allow access to the token owner's cart")
	fs.StringVar(&options.Config, "config", "config.json", "path to config file")
	fs.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := applyEnv(options); err != nil {
		return nil, err
	}

	return options, nil
}

func applyEnv(options *Options) error {
	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if usersFile := os.Getenv("USERS_FILE"); usersFile != "" {
		options.UsersFile = usersFile
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		options.JWTSecret = secret
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		options.LogLevel = level
	}
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("TOKEN_TTL: %w", err)
		}
		options.TokenTTL = d
	}

	for key, dst := range map[string]*bool{
		"PRODUCTS_REQUIRE_AUTH": &options.RequireAuthProducts,
		"CHECKOUT_REQUIRE_AUTH": &options.RequireAuthCheckout,
		"CART_ENFORCE_OWNER":    &options.EnforceCartOwner,
	} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
	}

	return nil
}
