package prompt

import "fmt"

// Analysis builds the instruction sent to the model. Deterministic for a
// given symbol and window so runs are reproducible.
func Analysis(symbol, window string) string {
	return fmt.Sprintf(`Please analyze the %s stock for %s using monthly data
as the time window and not the daily prices.
Use AlphaVantage as the data source for stock prices and the code_interpreter tool for analysis.

### Analysis
- Calculate month-over-month price changes (%%)
- Identify trend direction (up/down/sideways)
- Compute key metrics: avg closing price, volatility, volume trends

### Visualization
Generate using code_interpreter:
- Price chart: monthly OHLC data
- Volume chart: trading volume per month

Ensure charts have clear titles, labels, and legends.`, symbol, window)
}
