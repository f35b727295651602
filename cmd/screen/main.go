// Консольная оболочка экрана учета клиентов: вход, загрузка списка,
// поиск, сортировка и постраничный просмотр через API сервера.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Everton617/CadCustomer/internal/client"
	"github.com/Everton617/CadCustomer/internal/listing"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "адрес API сервера")
	email := flag.String("email", "", "email пользователя")
	password := flag.String("password", "", "пароль пользователя")
	pageSize := flag.Int("page-size", listing.DefaultPageSize, "число клиентов на странице")
	flag.Parse()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "необходимо указать -email и -password")
		os.Exit(1)
	}

	ctx := context.Background()
	api := client.New(*addr, nil)
	if err := api.SignIn(ctx, *email, *password); err != nil {
		fmt.Fprintf(os.Stderr, "ошибка входа: %v\n", err)
		os.Exit(1)
	}

	screen := listing.NewScreen(api, *email, *pageSize, logger)
	if err := screen.Refresh(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ошибка загрузки списка: %v\n", err)
		os.Exit(1)
	}

	render(screen)
	fmt.Println(`Команды: search <строка> | name <имя> | address <подстрока> | sort <name|lastname|email|birthdate> | page <n> | next | prev | refresh | quit`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "quit", "exit":
			return
		case "search":
			screen.SetSearch(arg)
		case "name":
			screen.SetNameFilter(arg)
		case "address":
			screen.SetAddressFilter(arg)
		case "sort":
			screen.ToggleSort(listing.SortColumn(arg))
		case "page":
			n, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Println("неверный номер страницы")
				continue
			}
			screen.SetPage(n)
		case "next":
			screen.NextPage()
		case "prev":
			screen.PrevPage()
		case "refresh":
			if err := screen.Refresh(ctx); err != nil {
				fmt.Printf("ошибка загрузки: %v\n", err)
				continue
			}
		case "":
		default:
			fmt.Println("неизвестная команда")
			continue
		}

		render(screen)
	}
}

func render(screen *listing.Screen) {
	page := screen.Visible()
	fmt.Printf("-- страница %d из %d (всего: %d) --\n", page.Number, page.TotalPages, page.Total)
	for _, customer := range page.Items {
		fmt.Printf("%-36s  %s %s  <%s>  %s\n",
			customer.ID, customer.Name, customer.Lastname, customer.Email, customer.Phone)
		for _, card := range customer.Cards {
			fmt.Printf("    карта %s  %s  до %s\n", card.ID, card.Number, card.Expiry)
		}
	}
}
