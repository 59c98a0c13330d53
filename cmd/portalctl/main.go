// cmd/portalctl/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	app "customer-portal/internal"
	"customer-portal/internal/config"
	"customer-portal/internal/repository"
	"customer-portal/internal/service"
	"customer-portal/internal/util"
)

const usage = `usage: portalctl <command> [flags]

commands:
  create-staff  -name -id-number -account [-password]   create a staff account
  set-active    -account -active=true|false             activate or deactivate a user
  users                                                  list user accounts
  settings      [-min] [-max]                            show or update transaction limits
  export        -out file.xlsx [-pending]                export transactions to a spreadsheet
  migrate                                                create or upgrade the storage schema
  rehash                                                 bcrypt-hash any plaintext passwords

Configuration is read from the same environment as the API server.`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	util.InitLogger(cfg.LogLevel)
	logger := util.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, _, err := app.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	auth, err := service.NewAuthService(store, logger, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("Failed to initialize auth service: %v", err)
	}
	payments := service.NewPaymentService(store, logger)

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "create-staff":
		err = createStaff(ctx, auth, args)
	case "set-active":
		err = setActive(ctx, auth, args)
	case "users":
		err = listUsers(ctx, auth)
	case "settings":
		err = settings(ctx, payments, args)
	case "export":
		err = export(ctx, payments, args)
	case "migrate":
		err = migrate(ctx, store, cfg)
	case "rehash":
		err = rehash(ctx, auth)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		store.Close()
		log.Fatalf("%s: %v", cmd, err)
	}
}

func createStaff(ctx context.Context, auth service.AuthService, args []string) error {
	fs := flag.NewFlagSet("create-staff", flag.ExitOnError)
	name := fs.String("name", "", "Full name")
	idNumber := fs.String("id-number", "", "13-digit national id number")
	account := fs.String("account", "", "Account number used to log in")
	password := fs.String("password", os.Getenv("PORTAL_STAFF_PASSWORD"), "Password (defaults to $PORTAL_STAFF_PASSWORD)")
	fs.Parse(args)

	user, err := auth.CreateStaff(ctx, service.RegisterInput{
		FullName:      *name,
		IDNumber:      *idNumber,
		AccountNumber: *account,
		Password:      *password,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created staff account %s (%s)\n", user.AccountNumber, user.ID)
	return nil
}

func setActive(ctx context.Context, auth service.AuthService, args []string) error {
	fs := flag.NewFlagSet("set-active", flag.ExitOnError)
	account := fs.String("account", "", "Account number")
	active := fs.Bool("active", true, "Whether the account may log in")
	fs.Parse(args)

	user, err := auth.SetActive(ctx, *account, *active)
	if err != nil {
		return err
	}
	fmt.Printf("Account %s active=%t\n", user.AccountNumber, user.IsActive)
	return nil
}

func listUsers(ctx context.Context, auth service.AuthService) error {
	users, err := auth.ListUsers(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tACCOUNT\tNAME\tROLE\tACTIVE\tLAST LOGIN")
	for _, u := range users {
		lastLogin := "-"
		if u.LastLogin != nil {
			lastLogin = u.LastLogin.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%s\n", u.ID, u.AccountNumber, u.FullName, u.Role, u.IsActive, lastLogin)
	}
	return tw.Flush()
}

func settings(ctx context.Context, payments service.PaymentService, args []string) error {
	fs := flag.NewFlagSet("settings", flag.ExitOnError)
	minFlag := fs.String("min", "", "Minimum transaction amount (0 disables)")
	maxFlag := fs.String("max", "", "Maximum transaction amount (0 disables)")
	fs.Parse(args)

	current, err := payments.Settings(ctx)
	if err != nil {
		return err
	}
	if *minFlag != "" || *maxFlag != "" {
		minAmount, maxAmount := current.MinTransactionAmount, current.MaxTransactionAmount
		if *minFlag != "" {
			if minAmount, err = decimal.NewFromString(*minFlag); err != nil {
				return fmt.Errorf("invalid -min: %w", err)
			}
		}
		if *maxFlag != "" {
			if maxAmount, err = decimal.NewFromString(*maxFlag); err != nil {
				return fmt.Errorf("invalid -max: %w", err)
			}
		}
		if current, err = payments.UpdateSettings(ctx, minAmount, maxAmount); err != nil {
			return err
		}
	}
	fmt.Printf("minTransactionAmount=%s\nmaxTransactionAmount=%s\n",
		current.MinTransactionAmount.StringFixed(2), current.MaxTransactionAmount.StringFixed(2))
	return nil
}

func export(ctx context.Context, payments service.PaymentService, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", fmt.Sprintf("transactions_%s.xlsx", time.Now().Format("20060102")), "Output file")
	pendingOnly := fs.Bool("pending", false, "Export only pending transactions")
	fs.Parse(args)

	list := payments.ListAll
	if *pendingOnly {
		list = payments.ListPending
	}
	transactions, err := list(ctx)
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := service.WriteTransactionsXLSX(f, transactions); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Exported %d transactions to %s\n", len(transactions), *out)
	return nil
}

// migrate relies on OpenStore, which applies the schema (postgres) or seeds
// the data file (json). It only confirms that the store is readable.
func migrate(ctx context.Context, store repository.Store, cfg *config.AppConfig) error {
	err := store.ReadOnly(ctx, func(ctx context.Context, repos repository.Repositories) error {
		_, err := repos.Settings.GetSettings(ctx)
		return err
	})
	if err != nil {
		return errors.Join(errors.New("storage not readable after migration"), err)
	}
	fmt.Printf("Storage %q is up to date\n", cfg.Storage.Driver)
	return nil
}

func rehash(ctx context.Context, auth service.AuthService) error {
	n, err := auth.Rehash(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Rehashed %d password(s)\n", n)
	return nil
}
