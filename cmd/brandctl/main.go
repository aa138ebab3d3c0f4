// Command brandctl is a small operator CLI over the brandkit SDK.
//
// Configuration comes from the environment (a local .env file is loaded when
// present); BRAND_API_BASE_URL is the only required variable. The session is
// persisted to a jar file, so a second invocation reuses the login.
//
// Usage:
//
//	brandctl login <username> <password>
//	brandctl whoami
//	brandctl brand
//	brandctl products
//	brandctl packages
//	brandctl logout
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	brandkit "github.com/nexar-ar/brandkit"
)

func main() {
	log.SetFlags(0)

	_ = godotenv.Load()

	cfg, err := brandkit.ConfigFromEnv()
	if err != nil {
		log.Fatalf("brandctl: read config: %v", err)
	}
	if cfg.Session.FilePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("brandctl: resolve home dir: %v", err)
		}
		cfg.Session.FilePath = filepath.Join(home, ".brandctl-session")
	}

	client, err := brandkit.New().
		WithConfig(cfg).
		WithEventSink(brandkit.NewJSONWriterSink(os.Stderr)).
		WithLogoutHandler(func() {
			fmt.Fprintln(os.Stderr, "session expired, run `brandctl login` again")
		}).
		Build()
	if err != nil {
		log.Fatalf("brandctl: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client.Session().Initialize(ctx)

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "login":
		if len(os.Args) != 4 {
			usage()
		}
		result, err := client.Login(ctx, os.Args[2], os.Args[3])
		if err != nil {
			log.Fatalf("brandctl: login: %v", err)
		}
		fmt.Printf("logged in as %s (%s)\n", result.Admin.Username, result.Admin.Email)

	case "whoami":
		identity := client.Session().Identity()
		if identity == nil {
			log.Fatal("brandctl: not logged in")
		}
		printJSON(identity)

	case "brand":
		brand, err := client.BrandDetail(ctx)
		if err != nil {
			log.Fatalf("brandctl: brand: %v", err)
		}
		printJSON(brand)

	case "products":
		products, err := client.Products(ctx)
		if err != nil {
			log.Fatalf("brandctl: products: %v", err)
		}
		printJSON(products)

	case "packages":
		packages, err := client.Packages(ctx)
		if err != nil {
			log.Fatalf("brandctl: packages: %v", err)
		}
		printJSON(packages)

	case "logout":
		if err := client.Logout(ctx); err != nil {
			log.Fatalf("brandctl: logout: %v", err)
		}
		fmt.Println("logged out")

	default:
		usage()
	}
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("brandctl: %v", err)
	}
	fmt.Println(string(data))
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: brandctl <login <user> <pass>|whoami|brand|products|packages|logout>")
	os.Exit(2)
}
