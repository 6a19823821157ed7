package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"

	"StockAdvisor/internal/model"
)

// FinanceGoFetcher implements Fetcher on top of the piquette/finance-go chart client.
type FinanceGoFetcher struct {
	now func() time.Time
}

func NewFinanceGoFetcher() *FinanceGoFetcher {
	return &FinanceGoFetcher{now: time.Now}
}

func (f *FinanceGoFetcher) Name() string { return "financego" }

func (f *FinanceGoFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	end := f.now()
	start := end.AddDate(0, 0, -days)

	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	bars := make([]model.OHLCV, 0, days)
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bar := iter.Bar()
		if bar.Close.IsZero() {
			continue
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(int64(bar.Timestamp), 0),
			Open:   decimalToFloat(bar.Open),
			High:   decimalToFloat(bar.High),
			Low:    decimalToFloat(bar.Low),
			Close:  decimalToFloat(bar.Close),
			Volume: float64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("financego chart %s: %w", symbol, err)
	}
	return bars, nil
}

func decimalToFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
