package sniff

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"

	"github.com/cleared-dev/tbingest/internal/model"
)

func readFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("../../testdata/trial_balance_sep.csv")
	require.NoError(t, err)
	return data
}

func TestNormalize_Fixture(t *testing.T) {
	n, err := Normalize(string(readFixture(t)))
	require.NoError(t, err)

	assert.Equal(t, ',', n.Delimiter)
	assert.True(t, len(n.Text) > 0)
	assert.Equal(t, "Category,Account Code,Account Name,Source,Debit,Credit", firstLine(n.Text))
	assert.NotContains(t, n.Text, "sep=")
	assert.NotContains(t, n.Text, "Trial Balance for")
	assert.NotContains(t, n.Text, "\r")
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		string(readFixture(t)),
		"Report\r\n\r\nAccount;Debit;Credit\r\nBank;10;\r\n",
		"\ufeffsep=;\nAccount;Debit;Credit\nBank;10;\n\n",
		"Account\tDebit\tCredit\nBank\t10\t",
		"Account Name,Debit,Credit\rBank,100.00,\rSales,,100.00\r",
	}
	for _, in := range inputs {
		once, err := Normalize(in)
		require.NoError(t, err)
		twice, err := Normalize(once.Text)
		require.NoError(t, err)
		assert.Equal(t, once.Text, twice.Text, "normalize(%q)", in)
		assert.Equal(t, once.Delimiter, twice.Delimiter, "normalize(%q)", in)
	}
}

func TestNormalize_CROnlyLineEndings(t *testing.T) {
	n, err := Normalize("Trial Balance\rAccount Name,Debit,Credit\rBank,100.00,\rSales,,100.00\r")
	require.NoError(t, err)

	assert.Equal(t, "Account Name,Debit,Credit\nBank,100.00,\nSales,,100.00\n", n.Text)
	assert.NotContains(t, n.Text, "\r")
}

func TestNormalize_Delimiter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want rune
	}{
		{"comma", "Account,Debit,Credit\n", ','},
		{"semicolon", "Account;Debit;Credit\n", ';'},
		{"tab", "Account\tDebit\tCredit\n", '\t'},
		{"sep directive wins", "sep=;\nAccount;Debit,Amount;Credit,Amount\n", ';'},
		{"quoted sep directive", "\"sep=|\"\nAccount|Debit|Credit,x\n", '|'},
		{"tab sep directive", "sep=\t\nAccount\tDebit\tCredit\n", '\t'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Delimiter)
		})
	}
}

func TestNormalize_NoHeader(t *testing.T) {
	_, err := Normalize("Account,Amount\nBank,10\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	var ufe *UnsupportedFormatError
	assert.ErrorAs(t, err, &ufe)
}

func TestDecode(t *testing.T) {
	t.Run("utf8 bom", func(t *testing.T) {
		s, err := Decode([]byte("\xEF\xBB\xBFAccount,Debit,Credit"))
		require.NoError(t, err)
		assert.Equal(t, "Account,Debit,Credit", s)
	})
	t.Run("utf16 bom", func(t *testing.T) {
		enc, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte("Account,Debit,Credit"))
		require.NoError(t, err)
		s, err := Decode(enc)
		require.NoError(t, err)
		assert.Equal(t, "Account,Debit,Credit", s)
	})
	t.Run("windows-1252", func(t *testing.T) {
		s, err := Decode([]byte("Caf\xe9 Rent,1,"))
		require.NoError(t, err)
		assert.Equal(t, "Café Rent,1,", s)
	})
	t.Run("plain utf8", func(t *testing.T) {
		s, err := Decode([]byte("Café"))
		require.NoError(t, err)
		assert.Equal(t, "Café", s)
	})
}

func TestDetect_Delimited(t *testing.T) {
	p, err := Detect(model.NewUpload("tb.csv", readFixture(t)))
	require.NoError(t, err)
	assert.Equal(t, KindDelimited, p.Kind)
	assert.Equal(t, ',', p.Delimiter)
	assert.Equal(t, "Category,Account Code,Account Name,Source,Debit,Credit", firstLine(p.Text))
}

func TestDetect_MislabelledWorkbookFallsBackToText(t *testing.T) {
	p, err := Detect(model.NewUpload("tb.xls", []byte("Title\nAccount,Debit,Credit\nBank,5,\n")))
	require.NoError(t, err)
	assert.Equal(t, KindDelimited, p.Kind)
}

func TestDetect_Markup(t *testing.T) {
	tests := []string{
		"<html><body><table><tr><td>Account</td><td>Debit</td><td>Credit</td></tr></table></body></html>",
		"<?xml version=\"1.0\"?>\n<Workbook xmlns=\"urn:schemas-microsoft-com:office:spreadsheet\"></Workbook>",
		"<TABLE border=1><TR><TD>x</TD></TR></TABLE>",
	}
	for _, in := range tests {
		p, err := Detect(model.NewUpload("tb.xls", []byte(in)))
		require.NoError(t, err, in)
		assert.Equal(t, KindMarkup, p.Kind, in)
		assert.Equal(t, in, p.Text)
	}
}

func TestDetect_Workbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Acme Trial Balance"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"Account", "Debit", "Credit"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{"Bank", 10, nil}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	p, err := Detect(model.NewUpload("tb.xlsx", buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, KindWorkbook, p.Kind)
	require.NotEmpty(t, p.Grid)
	assert.Equal(t, []string{"Account", "Debit", "Credit"}, p.Grid[0])
}

func TestDetect_WorkbookWithoutHeader(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Name", "Amount"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = Detect(model.NewUpload("tb.xlsx", buf.Bytes()))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDetect_Unsupported(t *testing.T) {
	tests := []model.Upload{
		model.NewUpload("notes.txt", []byte("just some notes about debit and credit")),
		model.NewUpload("tb.csv", []byte("Account,Amount\nBank,10\n")),
		model.NewUpload("tb.xlsx", []byte("garbage")),
		model.NewUpload("", nil),
	}
	for _, u := range tests {
		_, err := Detect(u)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, "upload %q", u.Name)
	}
}

func TestLocateHeader(t *testing.T) {
	grid, err := LocateHeader([][]string{
		{"Trial Balance"},
		nil,
		{"Account", "DEBIT", "Credit"},
		{"Bank", "1", ""},
	})
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, "DEBIT", grid[0][1])
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "delimited", KindDelimited.String())
	assert.Equal(t, "markup", KindMarkup.String())
	assert.Equal(t, "workbook", KindWorkbook.String())
	assert.Equal(t, "unknown", Kind(0).String())
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
