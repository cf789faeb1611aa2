package chipbook

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/PaesslerAG/jsonpath"
)

const sheets_api_key = "CHIPBOOK_SHEETS_API_KEY"

var sheetsApiFlag = flag.String("sheets-api-key", "", "API key to use for fetching the results grid from the spreadsheet values API.\n If missing it will read the environment variable \""+sheets_api_key+"\".")

func sheetsApiKey() string {
	// If the flag is not set, we try to read it from the environment variable.
	if *sheetsApiFlag == "" {
		*sheetsApiFlag = os.Getenv(sheets_api_key)
	}
	return *sheetsApiFlag
}

// ReadGridCSV reads a results grid from CSV, the shape a spreadsheet export
// produces. Every cell comes back as a string, the importer decides what it
// means.
func ReadGridCSV(r io.Reader) ([][]any, error) {
	cr := csv.NewReader(r)
	// results grids are ragged, players who joined late have short rows
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not read grid: %w", err)
	}
	rows := make([][]any, len(records))
	for i, record := range records {
		row := make([]any, len(record))
		for j, cell := range record {
			row[j] = cell
		}
		rows[i] = row
	}
	return rows, nil
}

/*
	{
	    "range": "Results!A1:F12",
	    "majorDimension": "ROWS",
	    "values": [
	        ["Players", "1/2/2025", "1/8/2025", "Total"],
	        ["Zach", "120.00", "(35)", "85.00"]
	    ]
	}
*/

// FetchGrid pulls the results grid from the spreadsheet values API. The
// response is queried at most once a day, settled results do not move
// intraday.
func FetchGrid(spreadsheetID, readRange string) ([][]any, error) {
	key := sheetsApiKey()
	if key == "" {
		return nil, fmt.Errorf("no spreadsheet API key: set -sheets-api-key or the %s environment variable", sheets_api_key)
	}
	addr := fmt.Sprintf("https://sheets.googleapis.com/v4/spreadsheets/%s/values/%s?key=%s",
		url.PathEscape(spreadsheetID), url.PathEscape(readRange), url.QueryEscape(key))

	var jobj any
	if err := jwget(daily(), addr, &jobj); err != nil {
		return nil, fmt.Errorf("error fetching grid %q: %w", spreadsheetID, err)
	}
	path := "$.values"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing grid %q: %q %w", spreadsheetID, path, err)
	}
	rows, err := gridFromValues(jval)
	if err != nil {
		return nil, fmt.Errorf("error parsing grid %q: %w", spreadsheetID, err)
	}
	return rows, nil
}

// gridFromValues converts the decoded values array of the API response into
// grid rows.
func gridFromValues(jval any) ([][]any, error) {
	jrows, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("values is not a list of rows: %v", jval)
	}
	rows := make([][]any, 0, len(jrows))
	for i, jrow := range jrows {
		cells, ok := jrow.([]any)
		if !ok {
			return nil, fmt.Errorf("row %d is not a list", i+1)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
