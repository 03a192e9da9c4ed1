package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tbingest/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func sampleEntries() []model.Entry {
	return []model.Entry{
		{
			AccountNumber: "1000/000",
			AccountName:   "Bank - FNB Business Cheque",
			Debit:         dec("184512.37"),
			Type:          model.AccountTypeAsset,
			Bucket:        model.BucketCurrentAssets,
			Category:      "Current Assets",
			Source:        "Bank",
			Row:           2,
		},
		{
			AccountNumber: "2100/000",
			AccountName:   `VAT Payable, "output"`,
			Credit:        dec("18733.09"),
			Type:          model.AccountTypeLiability,
			Bucket:        model.BucketCurrentLiabilities,
			Category:      "Current Liabilities",
			Source:        "VAT",
			Row:           11,
		},
	}
}

func TestRoundTrip(t *testing.T) {
	entries := sampleEntries()

	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, entries))
	assert.True(t, strings.HasPrefix(buf.String(), "account_number,"))

	got, err := ReadEntries(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i := range entries {
		assert.Equal(t, entries[i].AccountNumber, got[i].AccountNumber)
		assert.Equal(t, entries[i].AccountName, got[i].AccountName)
		assert.True(t, entries[i].Debit.Equal(got[i].Debit), "debit mismatch row %d", i)
		assert.True(t, entries[i].Credit.Equal(got[i].Credit), "credit mismatch row %d", i)
		assert.Equal(t, entries[i].Type, got[i].Type)
		assert.Equal(t, entries[i].Bucket, got[i].Bucket)
		assert.Equal(t, entries[i].Category, got[i].Category)
		assert.Equal(t, entries[i].Source, got[i].Source)
		assert.Equal(t, entries[i].Row, got[i].Row)
	}
}

func TestMarshalEntry(t *testing.T) {
	row := MarshalEntry(sampleEntries()[1])
	require.Len(t, row, numFields)
	assert.Equal(t, "", row[colDebit])
	assert.Equal(t, "18733.09", row[colCredit])
	assert.Equal(t, "-18733.09", row[colBalance])
	assert.Equal(t, "liability", row[colType])
	assert.Equal(t, "current_liabilities", row[colLineItem])
	assert.Equal(t, "11", row[colRow])
}

func TestUnmarshalBalanceMismatch(t *testing.T) {
	row := MarshalEntry(sampleEntries()[0])
	row[colBalance] = "1.00"
	_, err := UnmarshalEntry(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not equal")
}

func TestUnmarshalErrors(t *testing.T) {
	good := MarshalEntry(sampleEntries()[0])

	_, err := UnmarshalEntry(good[:5])
	assert.Error(t, err)

	bad := append([]string(nil), good...)
	bad[colDebit] = "lots"
	_, err = UnmarshalEntry(bad)
	assert.Error(t, err)

	bad = append([]string(nil), good...)
	bad[colType] = "mystery"
	_, err = UnmarshalEntry(bad)
	assert.Error(t, err)

	bad = append([]string(nil), good...)
	bad[colRow] = "two"
	_, err = UnmarshalEntry(bad)
	assert.Error(t, err)
}

func TestReadEmpty(t *testing.T) {
	got, err := ReadEntries(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPath(t *testing.T) {
	assert.Equal(t, filepath.Join("repo", "trialbalances", "feb-2024.csv"), Path("repo", "feb-2024.xlsx"))
	assert.Equal(t, filepath.Join("repo", "trialbalances", "tb.csv"), Path("repo", "tb"))
}

func TestSaveLoad(t *testing.T) {
	root := t.TempDir()
	path, err := Save(root, "feb.xlsx", sampleEntries())
	require.NoError(t, err)
	assert.FileExists(t, path)

	got, err := Load(root, "feb.xlsx")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = Load(root, "missing.csv")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRoundTrip_SubCentAmounts(t *testing.T) {
	entries := []model.Entry{{
		AccountName: "Bank",
		Debit:       dec("1.005"),
		Credit:      dec("0.004"),
		Type:        model.AccountTypeAsset,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, entries))
	assert.Contains(t, buf.String(), ",1.005,0.004,1.001,")

	got, err := ReadEntries(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Debit.Equal(dec("1.005")))
	assert.True(t, got[0].Credit.Equal(dec("0.004")))
}

func TestMarshalEntry_CentsKeepTwoPlaces(t *testing.T) {
	row := MarshalEntry(model.Entry{AccountName: "Sales", Credit: dec("100"), Type: model.AccountTypeRevenue})
	assert.Equal(t, "100.00", row[colCredit])
	assert.Equal(t, "-100.00", row[colBalance])
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteEntries_ReportsFlushError(t *testing.T) {
	err := WriteEntries(failingWriter{}, sampleEntries())
	assert.ErrorContains(t, err, "disk full")
}
