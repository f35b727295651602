// Package listing реализует клиентскую часть экрана учета клиентов:
// фильтрацию, сортировку и постраничный вывод списка в памяти.
package listing

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Everton617/CadCustomer/internal/model"
)

// DefaultPageSize — число клиентов на странице таблицы
const DefaultPageSize = 8

// SortColumn — колонка таблицы, по которой выполняется сортировка
type SortColumn string

const (
	SortByName      SortColumn = "name"
	SortByLastname  SortColumn = "lastname"
	SortByEmail     SortColumn = "email"
	SortByBirthDate SortColumn = "birthdate"
)

// Order — активная колонка сортировки и направление
type Order struct {
	Column SortColumn
	Desc   bool
}

// Query — параметры фильтрации и сортировки списка.
// Все предикаты объединяются по «И».
type Query struct {
	Search  string // подстрока без учета регистра по имени, фамилии и email
	Name    string // точное совпадение имени
	Address string // подстрока адреса
	Order   Order
}

// Apply фильтрует и сортирует список, не изменяя исходный слайс
func Apply(items []model.CustomerResponse, q Query) []model.CustomerResponse {
	out := make([]model.CustomerResponse, 0, len(items))
	for _, item := range items {
		if matches(item, q) {
			out = append(out, item)
		}
	}

	sortItems(out, q.Order)
	return out
}

func matches(c model.CustomerResponse, q Query) bool {
	if q.Search != "" {
		search := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Lastname), search) &&
			!strings.Contains(strings.ToLower(c.Email), search) {
			return false
		}
	}
	if q.Name != "" && c.Name != q.Name {
		return false
	}
	if q.Address != "" && !strings.Contains(c.Address, q.Address) {
		return false
	}
	return true
}

// sortItems сортирует по одной активной колонке. Даты сравниваются по
// отметке времени, строки — с учетом локали. Неизвестная колонка
// оставляет порядок без изменений.
func sortItems(items []model.CustomerResponse, order Order) {
	var less func(a, b model.CustomerResponse) bool

	switch order.Column {
	case SortByBirthDate:
		less = func(a, b model.CustomerResponse) bool {
			return a.BirthDate.Before(b.BirthDate)
		}
	case SortByName, SortByLastname, SortByEmail:
		col := collate.New(language.BrazilianPortuguese)
		field := func(c model.CustomerResponse) string {
			switch order.Column {
			case SortByLastname:
				return c.Lastname
			case SortByEmail:
				return c.Email
			default:
				return c.Name
			}
		}
		less = func(a, b model.CustomerResponse) bool {
			return col.CompareString(field(a), field(b)) < 0
		}
	default:
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		if order.Desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// Page — одна страница отфильтрованного списка
type Page struct {
	Items      []model.CustomerResponse
	Number     int // номер страницы, начиная с 1
	TotalPages int
	Total      int // размер отфильтрованного списка
}

// Paginate вырезает страницу фиксированного размера из списка
func Paginate(items []model.CustomerResponse, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:      items[start:end],
		Number:     page,
		TotalPages: totalPages,
		Total:      total,
	}
}
