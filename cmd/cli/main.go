// Package main is a terminal companion for the snowbudget: it lists budget
// classes, records transactions, and prints the period summary against the
// same files the API server uses.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/snowbudget/backend/internal/application/usecase/budget"
	"github.com/snowbudget/backend/internal/domain/entity"
	"github.com/snowbudget/backend/internal/integration/persistence"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", os.Getenv("BUDGET_CONFIG_PATH"), "path to the budget configuration file")
	list := flag.Bool("list", false, "list all budget classes and basic statistics")
	add := flag.Bool("add", false, "prompt for a new transaction and record it")
	search := flag.String("search", "", "search transactions for a keyword")
	summary := flag.Bool("summary", false, "print the current period summary")
	flag.Parse()

	if *configPath == "" {
		fatality("no budget configuration given; pass -config or set BUDGET_CONFIG_PATH", nil)
	}

	spec, err := budget.LoadSpec(*configPath)
	if err != nil {
		fatality("failed to load the budget configuration", err)
	}

	store := persistence.NewClassStore(spec.SaveLocation, spec.BackupLocation)
	ledger, err := budget.NewLedger(spec, store, time.Now())
	if err != nil {
		fatality("failed to load the budget", err)
	}

	switch {
	case *list:
		listClasses(ledger)
	case *add:
		addTransaction(ledger)
	case *search != "":
		searchTransactions(ledger, *search)
	case *summary:
		printSummary(ledger)
	default:
		flag.Usage()
		os.Exit(1)
	}
}

func fatality(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%sFatal error:%s %s (%v)\n", colorRed, colorReset, msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "%sFatal error:%s %s\n", colorRed, colorReset, msg)
	}
	os.Exit(1)
}

func dollar(value float64) string {
	return fmt.Sprintf("$%.2f", value)
}

// listClasses prints every class grouped by type, with per-class totals and
// the latest transaction.
func listClasses(ledger *budget.Ledger) {
	var expenses, incomes []*entity.BudgetClass
	for _, class := range ledger.All() {
		if class.Type == entity.BudgetClassTypeIncome {
			incomes = append(incomes, class)
		} else {
			expenses = append(expenses, class)
		}
	}

	printGroup := func(label, color string, classes []*entity.BudgetClass) float64 {
		fmt.Printf("%d %s Classes:\n", len(classes), label)
		var groupTotal float64
		for _, class := range classes {
			transactions := class.SortedDescending()
			var total float64
			for _, t := range transactions {
				total += t.Price
			}
			groupTotal += total

			fmt.Printf(" - %s%s%s: %s\n", color, class.Name, colorReset, class.Description)
			fmt.Printf("     Total: %s\n", dollar(total))
			if len(transactions) > 0 {
				fmt.Printf("     %d transactions\n", len(transactions))
				fmt.Printf("     Latest: %s\n", transactions[0])
			}
		}
		return groupTotal
	}

	expenseTotal := printGroup("Expense", colorYellow, expenses)
	fmt.Printf("Total expenses: %s\n\n", dollar(expenseTotal))
	incomeTotal := printGroup("Income", colorGreen, incomes)
	fmt.Printf("Total income: %s\n", dollar(incomeTotal))
}

// addTransaction prompts for the transaction fields, confirms the matched
// class, and records the transaction.
func addTransaction(ledger *budget.Ledger) {
	in := bufio.NewReader(os.Stdin)

	priceText := prompt(in, "Price:")
	price, err := strconv.ParseFloat(priceText, 64)
	if err != nil || price <= 0 {
		fatality("the price must be a positive number", nil)
	}

	vendor := prompt(in, "Vendor:")
	description := prompt(in, "Description:")

	var class *entity.BudgetClass
	for class == nil {
		query := prompt(in, "Budget class:")
		if query == "" {
			fatality("no budget class given", nil)
		}
		matches, err := ledger.SearchClass(query)
		if err != nil {
			fmt.Println("Couldn't find a matching budget class.")
			continue
		}
		candidate := matches[0]
		fmt.Printf("Found class: %s\n", candidate)
		if promptBool(in, "Is this correct?") {
			class = candidate
		}
	}

	transaction, err := entity.NewTransaction(price, vendor, description, time.Now(), false)
	if err != nil {
		fatality("failed to build the transaction", err)
	}
	if err := ledger.AddTransaction(class, transaction); err != nil {
		fatality("failed to record the transaction", err)
	}
	fmt.Printf("Recorded %s against %s%s%s.\n", dollar(price), colorGreen, class.Name, colorReset)
}

func searchTransactions(ledger *budget.Ledger, query string) {
	matches, err := ledger.SearchTransaction(query)
	if err != nil {
		fmt.Println("No matching transactions.")
		return
	}
	for _, t := range matches {
		fmt.Printf(" - %s\n", t)
	}
	fmt.Printf("%d matching transactions.\n", len(matches))
}

func printSummary(ledger *budget.Ledger) {
	s := ledger.Summarize()
	fmt.Printf("Period %s (%q)\n", ledger.PeriodKey(), ledger.Spec().Name)
	fmt.Printf("  Income:  %s\n", dollar(s.TotalIncome))
	fmt.Printf("  Expense: %s\n", dollar(s.TotalExpense))
	fmt.Printf("  Surplus: %s\n", dollar(s.Surplus))
	for _, a := range s.Allocations {
		fmt.Printf("    %s: %s\n", a.Category.Name, dollar(a.Amount))
	}
	fmt.Printf("Next reset in %s.\n", ledger.TimeToNextReset().Round(time.Hour))
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Printf("%s%s%s ", colorYellow, label, colorReset)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptBool(in *bufio.Reader, label string) bool {
	for {
		switch strings.ToLower(prompt(in, label)) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		fmt.Println("Please enter y/yes or n/no.")
	}
}
