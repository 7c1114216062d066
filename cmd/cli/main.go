// Command cli is a small operator tool for the bank API: it registers
// accounts and moves money directly through the services, without going
// through HTTP.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/fincore/bankapi/infra/initializer"
	"github.com/fincore/bankapi/pkg/config"
	"github.com/fincore/bankapi/pkg/domain/ledger"
	"github.com/fincore/bankapi/pkg/money"
	ledgersvc "github.com/fincore/bankapi/pkg/service/ledger"
	usersvc "github.com/fincore/bankapi/pkg/service/user"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	cmd := os.Args[1]

	cfg, err := config.Load(slog.Default(), ".env")
	if err != nil {
		color.Red("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	deps, err := initializer.InitializeDependencies(cfg, slog.Default())
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	ctx := context.Background()

	switch cmd {
	case "register":
		if len(os.Args) < 6 {
			fmt.Println("Usage: cli register <full_name> <email> <cpf> <birth_date>")
			return
		}
		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			color.Red("Failed to read password: %v", err)
			os.Exit(1)
		}
		u, err := deps.User.Register(ctx, usersvc.RegisterInput{
			FullName:  os.Args[2],
			Email:     os.Args[3],
			Password:  string(password),
			CPF:       os.Args[4],
			BirthDate: os.Args[5],
		})
		if err != nil {
			color.Red("Failed to register: %v", err)
			os.Exit(1)
		}
		color.Green("Registered %s (id=%s, cpf=%s)", u.FullName, u.ID, u.CPF)
	case "balance":
		if len(os.Args) < 3 {
			fmt.Println("Usage: cli balance <cpf>")
			return
		}
		u, err := deps.User.GetByCPF(ctx, os.Args[2])
		if err != nil {
			color.Red("Failed to fetch balance: %v", err)
			os.Exit(1)
		}
		fmt.Printf("%s: %s\n", u.FullName, money.FormatBRL(u.TotalBalance))
	case "deposit", "withdraw":
		if len(os.Args) < 4 {
			fmt.Printf("Usage: cli %s <cpf> <amount>\n", cmd)
			return
		}
		u, err := deps.User.GetByCPF(ctx, os.Args[2])
		if err != nil {
			color.Red("Unknown cpf: %v", err)
			os.Exit(1)
		}
		amount, err := strconv.ParseFloat(os.Args[3], 64)
		if err != nil {
			color.Red("Invalid amount: %v", err)
			os.Exit(1)
		}
		value, err := money.PositiveFromReais(amount)
		if err != nil {
			color.Red("Invalid amount: %v", err)
			os.Exit(1)
		}
		txType := ledger.TypeDeposit
		if cmd == "withdraw" {
			txType = ledger.TypeWithdrawal
		}
		_, newBalance, err := deps.Ledger.CreateTransaction(ctx, ledgersvc.CreateInput{
			UserID: u.ID,
			Type:   txType,
			Value:  value,
		})
		if err != nil {
			color.Red("Transaction failed: %v", err)
			os.Exit(1)
		}
		color.Green("Done. New balance: %s", money.FormatBRL(newBalance))
	default:
		fmt.Println("Unknown command:", cmd)
		usage()
	}
}

func usage() {
	fmt.Println("Usage: cli <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  register <full_name> <email> <cpf> <birth_date>")
	fmt.Println("  balance <cpf>")
	fmt.Println("  deposit <cpf> <amount>")
	fmt.Println("  withdraw <cpf> <amount>")
}
