package entity

// QuoteMetadata is what the market data provider reports about a symbol.
// Empty strings mean the provider did not include the field.
type QuoteMetadata struct {
	Symbol    string
	LongName  string
	ShortName string
	Exchange  string
	Sector    string
	Industry  string
	MarketCap *float64
}

// Quote bundles provider metadata with the bars of one history request.
type Quote struct {
	Metadata QuoteMetadata
	Bars     []PriceBar
}
