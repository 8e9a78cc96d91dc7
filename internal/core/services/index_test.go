package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/embedprep-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/embedprep-cli/internal/core/domain"
)

func buildIndex(t *testing.T, input string, keepFields []string, maxRows int) *memory.MetadataStore {
	t.Helper()
	store := memory.NewMetadataStore()
	builder := NewIndexBuilder(keepFields, maxRows)
	require.NoError(t, builder.Build(context.Background(), strings.NewReader(input), store))
	return store
}

func TestBuild_ProjectsDefaultFields(t *testing.T) {
	input := `{"asin":"B1","title":"Toy Car","brand":"Acme","main_cat":"Toys","category":["Vehicles"],"price":"$9.99","rank":"123 in Toys","also_buy":["B9"]}` + "\n"
	store := buildIndex(t, input, nil, 0)

	rec, err := store.Get(context.Background(), "B1")
	require.NoError(t, err)
	assert.Equal(t, "Toy Car", *rec.Title)
	assert.Equal(t, "Acme", *rec.Brand)
	assert.Equal(t, "Toys", *rec.MainCat)
	assert.Equal(t, []string{"Vehicles"}, rec.Categories)
	require.NotNil(t, rec.Price)
	assert.InDelta(t, 9.99, *rec.Price, 1e-9)
	assert.JSONEq(t, `"123 in Toys"`, string(rec.Rank))

	// also_buy is not in the default field set.
	assert.Nil(t, rec.AlsoBuy)
}

func TestBuild_ScalarCategoryBecomesSequence(t *testing.T) {
	store := buildIndex(t, `{"asin":"B1","category":"Vehicles"}`+"\n", nil, 0)

	rec, err := store.Get(context.Background(), "B1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Vehicles"}, rec.Categories)
}

func TestBuild_SanitisesTextFields(t *testing.T) {
	input := `{"asin":"B1","title":"Tom &amp; Jerry <b>Deluxe</b>","brand":" Acme ","main_cat":"Toys &amp; Games"}` + "\n"
	store := buildIndex(t, input, nil, 0)

	rec, err := store.Get(context.Background(), "B1")
	require.NoError(t, err)
	assert.Equal(t, "Tom & Jerry  Deluxe", *rec.Title)
	assert.Equal(t, "Acme", *rec.Brand)
	assert.Equal(t, "Toys & Games", *rec.MainCat)
}

func TestBuild_PriceVariants(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected *float64
	}{
		{name: "noisy string", line: `{"asin":"B1","price":"$1,234.50"}`, expected: floatPtr(1234.5)},
		{name: "numeric", line: `{"asin":"B1","price":9.99}`, expected: floatPtr(9.99)},
		{name: "large numeric stays decimal", line: `{"asin":"B1","price":1000000}`, expected: floatPtr(1000000)},
		{name: "numeric zero is absent", line: `{"asin":"B1","price":0}`, expected: nil},
		{name: "garbage", line: `{"asin":"B1","price":"N/A"}`, expected: nil},
		{name: "missing", line: `{"asin":"B1"}`, expected: nil},
		{name: "null", line: `{"asin":"B1","price":null}`, expected: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := buildIndex(t, tc.line+"\n", nil, 0)
			rec, err := store.Get(context.Background(), "B1")
			require.NoError(t, err)
			if tc.expected == nil {
				assert.Nil(t, rec.Price)
			} else {
				require.NotNil(t, rec.Price)
				assert.InDelta(t, *tc.expected, *rec.Price, 1e-9)
			}
		})
	}
}

func TestBuild_DuplicateASINLastWriteWins(t *testing.T) {
	input := `{"asin":"B1","title":"first"}` + "\n" + `{"asin":"B1","title":"second"}` + "\n"
	store := buildIndex(t, input, nil, 0)

	rec, err := store.Get(context.Background(), "B1")
	require.NoError(t, err)
	assert.Equal(t, "second", *rec.Title)

	n, err := store.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBuild_SkipsRowsWithoutASIN(t *testing.T) {
	input := `{"title":"orphan"}` + "\n" + `{"asin":"B1","title":"kept"}` + "\n"
	store := buildIndex(t, input, nil, 0)

	n, err := store.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBuild_SkipsBlankLines(t *testing.T) {
	input := "\n" + `{"asin":"B1"}` + "\n" + "   \n" + `{"asin":"B2"}` + "\n"
	store := buildIndex(t, input, nil, 0)

	n, err := store.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestBuild_RowCapCountsInputLines(t *testing.T) {
	input := `{"asin":"B1"}` + "\n" + `{"asin":"B2"}` + "\n" + `{"asin":"B3"}` + "\n"
	store := buildIndex(t, input, nil, 2)

	n, err := store.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = store.Get(context.Background(), "B3")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBuild_RowCapNotTriggeredByBlankLines(t *testing.T) {
	// A blank line is skipped before the cap check, so the row that
	// crosses the cap is still processed.
	input := `{"asin":"B1"}` + "\n\n" + `{"asin":"B2"}` + "\n" + `{"asin":"B3"}` + "\n"
	store := buildIndex(t, input, nil, 2)

	n, err := store.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = store.Get(context.Background(), "B2")
	assert.NoError(t, err)
}

func TestBuild_KeepFieldsOverride(t *testing.T) {
	input := `{"asin":"B1","title":"Toy","brand":"Acme","also_buy":["B9"]}` + "\n"
	store := buildIndex(t, input, []string{"title", "also_buy"}, 0)

	rec, err := store.Get(context.Background(), "B1")
	require.NoError(t, err)
	assert.Equal(t, "Toy", *rec.Title)
	assert.Nil(t, rec.Brand)
	assert.Equal(t, []string{"B9"}, rec.AlsoBuy)
}

func TestBuild_MistypedFieldDegradesToAbsent(t *testing.T) {
	// A well-framed row with a wrongly typed field keeps the rest of the
	// row; only broken framing aborts the run.
	input := `{"asin":"B1","title":123,"brand":"Acme"}` + "\n"
	store := buildIndex(t, input, nil, 0)

	rec, err := store.Get(context.Background(), "B1")
	require.NoError(t, err)
	assert.Nil(t, rec.Title)
	require.NotNil(t, rec.Brand)
	assert.Equal(t, "Acme", *rec.Brand)
}

func TestBuild_MalformedLineIsFatal(t *testing.T) {
	store := memory.NewMetadataStore()
	builder := NewIndexBuilder(nil, 0)

	input := `{"asin":"B1"}` + "\n" + `{not json` + "\n"
	err := builder.Build(context.Background(), strings.NewReader(input), store)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedLine)
	assert.Contains(t, err.Error(), "line 2")
}

func TestBuild_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := memory.NewMetadataStore()
	err := NewIndexBuilder(nil, 0).Build(ctx, strings.NewReader(`{"asin":"B1"}`+"\n"), store)
	assert.ErrorIs(t, err, context.Canceled)
}
