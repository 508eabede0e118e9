package forecast

// DefaultHorizons are the forecast windows requested when none are given
var DefaultHorizons = []int{30, 60, 90}

type Request struct {
	AnalysisID   string `json:"analysis_id"`
	ForecastDays []int  `json:"forecast_days"`
	ByProduct    bool   `json:"by_product"`
	ByCategory   bool   `json:"by_category"`
}

type DataPoint struct {
	Date              string  `json:"date"`
	PredictedQuantity float64 `json:"predicted_quantity"`
	LowerBound        float64 `json:"lower_bound"`
	UpperBound        float64 `json:"upper_bound"`
}

type HistoricalPoint struct {
	Date     string  `json:"date"`
	Quantity float64 `json:"quantity"`
}

// Metrics are the backtest accuracy figures of a model
type Metrics struct {
	MAPE                *float64 `json:"mape"`
	RMSE                *float64 `json:"rmse"`
	MAE                 *float64 `json:"mae"`
	Trend               string   `json:"trend"`
	SeasonalityStrength float64  `json:"seasonality_strength"`
	AccuracyLevel       string   `json:"accuracy_level,omitempty"`
	SampleSize          int      `json:"sample_size,omitempty"`
}

type Recommendations struct {
	RestockDate       *string  `json:"restock_date"`
	SuggestedQuantity *float64 `json:"suggested_quantity"`
	Confidence        float64  `json:"confidence"`
	Reasoning         string   `json:"reasoning"`
}

type ProductForecast struct {
	ProductID       string            `json:"product_id"`
	ProductName     string            `json:"product_name"`
	Category        string            `json:"category"`
	HistoricalData  []HistoricalPoint `json:"historical_data"`
	Forecast30d     []DataPoint       `json:"forecast_30d"`
	Forecast60d     []DataPoint       `json:"forecast_60d"`
	Forecast90d     []DataPoint       `json:"forecast_90d"`
	Metrics         Metrics           `json:"metrics"`
	Recommendations Recommendations   `json:"recommendations"`
}

type CategoryForecast struct {
	Category       string            `json:"category"`
	ProductCount   int               `json:"product_count"`
	HistoricalData []HistoricalPoint `json:"historical_data"`
	Forecast30d    []DataPoint       `json:"forecast_30d"`
	Forecast60d    []DataPoint       `json:"forecast_60d"`
	Forecast90d    []DataPoint       `json:"forecast_90d"`
	Metrics        Metrics           `json:"metrics"`
}

type Stats struct {
	TotalProducts    int    `json:"total_products"`
	Categories       int    `json:"categories"`
	ForecastHorizons []int  `json:"forecast_horizons"`
	GeneratedAt      string `json:"generated_at"`
}

type Response struct {
	AnalysisID        string             `json:"analysis_id"`
	CreatedAt         string             `json:"created_at"`
	ProductForecasts  []ProductForecast  `json:"product_forecasts"`
	CategoryForecasts []CategoryForecast `json:"category_forecasts"`
	Stats             Stats              `json:"stats"`
}

// AverageDailyDemand is the demand-rate signal of a product: the mean of the
// predicted quantities over the 30-day horizon. Nil when that horizon is empty.
func (p ProductForecast) AverageDailyDemand() *float64 {
	if len(p.Forecast30d) == 0 {
		return nil
	}

	var total float64
	for _, point := range p.Forecast30d {
		total += point.PredictedQuantity
	}
	avg := total / float64(len(p.Forecast30d))

	return &avg
}
