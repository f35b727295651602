package listing

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Everton617/CadCustomer/internal/model"
)

func customer(name, lastname, email string) model.CustomerResponse {
	return model.CustomerResponse{Customer: model.Customer{
		Name:     name,
		Lastname: lastname,
		Email:    email,
	}}
}

func names(items []model.CustomerResponse) []string {
	out := make([]string, 0, len(items))
	for _, c := range items {
		out = append(out, c.Name)
	}
	return out
}

func TestApply_SearchIsCaseInsensitive(t *testing.T) {
	items := []model.CustomerResponse{
		customer("Ana", "Silva", "ana.silva@example.com"),
		customer("Beto", "Souza", "beto.souza@example.com"),
	}

	got := Apply(items, Query{Search: "ana"})
	require.Len(t, got, 1)
	assert.Equal(t, "Ana", got[0].Name)
}

func TestApply_SearchMatchesLastnameAndEmail(t *testing.T) {
	items := []model.CustomerResponse{
		customer("Ana", "Silva", "ana.silva@example.com"),
		customer("Beto", "Souza", "beto.souza@example.com"),
	}

	got := Apply(items, Query{Search: "SOUZA"})
	require.Len(t, got, 1)
	assert.Equal(t, "Beto", got[0].Name)

	got = Apply(items, Query{Search: "beto.souza@"})
	require.Len(t, got, 1)
	assert.Equal(t, "Beto", got[0].Name)
}

func TestApply_PredicatesAreANDed(t *testing.T) {
	a := customer("Ana", "Silva", "ana@example.com")
	a.Address = "Rua das Flores, 123"
	b := customer("Ana", "Souza", "ana.souza@example.com")
	b.Address = "Avenida Central, 9"

	got := Apply([]model.CustomerResponse{a, b}, Query{
		Search:  "ana",
		Name:    "Ana",
		Address: "Flores",
	})
	require.Len(t, got, 1)
	assert.Equal(t, "Silva", got[0].Lastname)
}

func TestApply_NameFilterIsExact(t *testing.T) {
	items := []model.CustomerResponse{
		customer("Ana", "Silva", "ana@example.com"),
		customer("Analia", "Souza", "analia@example.com"),
	}

	got := Apply(items, Query{Name: "Ana"})
	require.Len(t, got, 1)
	assert.Equal(t, "Silva", got[0].Lastname)
}

func TestApply_SortByName(t *testing.T) {
	items := []model.CustomerResponse{
		customer("Carla", "", ""),
		customer("Ana", "", ""),
		customer("Beto", "", ""),
	}

	asc := Apply(items, Query{Order: Order{Column: SortByName}})
	assert.Equal(t, []string{"Ana", "Beto", "Carla"}, names(asc))

	desc := Apply(items, Query{Order: Order{Column: SortByName, Desc: true}})
	assert.Equal(t, []string{"Carla", "Beto", "Ana"}, names(desc))

	// Исходный слайс не изменяется
	assert.Equal(t, "Carla", items[0].Name)
}

func TestApply_SortByBirthDate(t *testing.T) {
	older := customer("Ana", "", "")
	older.BirthDate = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	younger := customer("Beto", "", "")
	younger.BirthDate = time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC)

	got := Apply([]model.CustomerResponse{younger, older}, Query{Order: Order{Column: SortByBirthDate}})
	assert.Equal(t, []string{"Ana", "Beto"}, names(got))
}

func TestApply_UnknownSortColumnKeepsOrder(t *testing.T) {
	items := []model.CustomerResponse{
		customer("Carla", "", ""),
		customer("Ana", "", ""),
	}

	got := Apply(items, Query{Order: Order{Column: SortColumn("nonsense")}})
	assert.Equal(t, []string{"Carla", "Ana"}, names(got))
}

func TestPaginate(t *testing.T) {
	items := make([]model.CustomerResponse, 17)
	for i := range items {
		items[i] = customer(fmt.Sprintf("Cliente %02d", i+1), "", "")
	}

	page1 := Paginate(items, 1, 8)
	assert.Equal(t, 1, page1.Number)
	assert.Equal(t, 3, page1.TotalPages)
	assert.Equal(t, 17, page1.Total)
	require.Len(t, page1.Items, 8)
	assert.Equal(t, "Cliente 01", page1.Items[0].Name)
	assert.Equal(t, "Cliente 08", page1.Items[7].Name)

	page3 := Paginate(items, 3, 8)
	require.Len(t, page3.Items, 1)
	assert.Equal(t, "Cliente 17", page3.Items[0].Name)
}

func TestPaginate_ClampsPageNumber(t *testing.T) {
	items := make([]model.CustomerResponse, 10)

	page := Paginate(items, 99, 8)
	assert.Equal(t, 2, page.Number)
	assert.Len(t, page.Items, 2)

	page = Paginate(items, 0, 8)
	assert.Equal(t, 1, page.Number)
}

func TestPaginate_Empty(t *testing.T) {
	page := Paginate(nil, 1, 8)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 0, page.TotalPages)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Number)
}
