package usage

// DefaultPricing holds conservative per-million-token rates for the default
// model pair. Override via the pricing section of the config file when the
// configured models are priced differently.
var DefaultPricing = Pricing{
	FastInputPerMTok:     0.80,
	FastOutputPerMTok:    4.00,
	CapableInputPerMTok:  3.00,
	CapableOutputPerMTok: 15.00,
}
