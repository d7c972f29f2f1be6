package resolve

// DefaultTable returns the built-in metric spec table for the EDINET
// 2024-11-01 taxonomy. Tag patterns are ordered by trust: summary-of-business-
// results concepts first, then statement-level concepts. Keyword weights feed
// the dynamic scorer when no pattern matches; negative weights disqualify
// look-alike tags (treasury stock, authorized shares).
func DefaultTable() *SpecTable {
	return &SpecTable{
		Taxonomy: "edinet-2024-11-01",
		Specs: []MetricSpec{
			{
				Name:        "stockPrice",
				Kind:        KindMonetary,
				TagPatterns: []string{"StockPrice", "SharePrice", "StockPriceAtTheEndOfFiscalYear"},
				Keywords: map[string]int{
					"stockprice": 15,
					"shareprice": 15,
					"closing":    5,
				},
				Range:       ValidRange{Min: 1, Max: 10_000_000},
				Consolidate: true,
				Period:      PreferPeriodEnd,
			},
			{
				Name: "netSales",
				Kind: KindMonetary,
				TagPatterns: []string{
					"RevenueIFRSSummaryOfBusinessResults",
					"NetSalesSummaryOfBusinessResults",
					"NetSales",
				},
				Keywords: map[string]int{
					"netsales":         15,
					"totalrevenue":     15,
					"revenue":          12,
					"operatingrevenue": 12,
					"sales":            10,
					"consolidated":     10,
				},
				Range:       ValidRange{Min: 1_000_000, Max: 100_000_000_000_000},
				Consolidate: true,
				Period:      PreferCurrentYear,
			},
			{
				Name: "operatingIncome",
				Kind: KindMonetary,
				TagPatterns: []string{
					"OperatingIncomeLossSummaryOfBusinessResults",
					"OperatingProfitLossIFRSSummaryOfBusinessResults",
					"OperatingIncome",
				},
				Keywords: map[string]int{
					"operatingprofitloss": 15,
					"operatingincome":     15,
					"operatingprofit":     12,
					"consolidated":        10,
					"nonoperating":        -20,
				},
				Range:       ValidRange{Min: -10_000_000_000_000, Max: 100_000_000_000_000},
				Consolidate: true,
				Period:      PreferCurrentYear,
			},
			{
				Name: "netIncome",
				Kind: KindMonetary,
				TagPatterns: []string{
					"ProfitLossAttributableToOwnersOfParentSummaryOfBusinessResults",
					"NetIncomeLossSummaryOfBusinessResults",
					"ProfitLossAttributableToOwnersOfParent",
					"NetIncome",
				},
				Keywords: map[string]int{
					"profitlossattributabletoownersofparent": 15,
					"netincome":     15,
					"profitloss":    10,
					"attributable":  8,
					"consolidated":  10,
					"comprehensive": -10,
				},
				Range:       ValidRange{Min: -10_000_000_000_000, Max: 100_000_000_000_000},
				Consolidate: true,
				Period:      PreferCurrentYear,
			},
			{
				Name: "depreciation",
				Kind: KindMonetary,
				TagPatterns: []string{
					"DepreciationAndAmortizationSummaryOfBusinessResults",
					"DepreciationAndAmortization",
					"DepreciationSGA",
				},
				Keywords: map[string]int{
					"depreciationandamortization": 15,
					"depreciation":                12,
					"amortization":                12,
					"expenses":                    8,
					"consolidated":                10,
					"accumulated":                 -20,
				},
				Range:       ValidRange{Min: 10_000_000, Max: 1_000_000_000_000},
				Consolidate: true,
				Period:      PreferCurrentYear,
			},
			{
				Name: "employees",
				Kind: KindCount,
				TagPatterns: []string{
					"NumberOfEmployeesSummaryOfBusinessResults",
					"NumberOfEmployees",
				},
				Keywords: map[string]int{
					"numberofemployees": 15,
					"employees":         12,
					"personnel":         8,
					"workforce":         8,
					"consolidated":      10,
					"temporary":         -10,
					"average":           -5,
				},
				Range:       ValidRange{Min: 1, Max: 1_000_000},
				Consolidate: true,
				Period:      PreferPeriodEnd,
			},
			{
				Name: "equity",
				Kind: KindMonetary,
				TagPatterns: []string{
					"NetAssetsSummaryOfBusinessResults",
					"EquityIFRS",
					"ShareholdersEquity",
					"NetAssets",
				},
				Keywords: map[string]int{
					"shareholdersequity": 15,
					"netassets":          15,
					"totalequity":        12,
					"equity":             12,
					"attributable":       8,
					"parent":             8,
					"consolidated":       10,
					"pershare":           -25,
					"ratio":              -25,
				},
				Range:       ValidRange{Min: 100_000_000, Max: 100_000_000_000_000},
				Consolidate: true,
				Period:      PreferPeriodEnd,
			},
			{
				Name: "debt",
				Kind: KindMonetary,
				TagPatterns: []string{
					"InterestBearingDebt",
					"BondsPayableAndBorrowingsIFRS",
				},
				Keywords: map[string]int{
					"interestbearingdebt": 15,
					"borrowings":          12,
					"bondspayable":        10,
					"longtermdebt":        10,
					"shortterm":           5,
					"consolidated":        10,
					"ratio":               -25,
				},
				Range:       ValidRange{Min: 0, Max: 100_000_000_000_000},
				Consolidate: true,
				Period:      PreferPeriodEnd,
			},
			{
				Name: "cash",
				Kind: KindMonetary,
				TagPatterns: []string{
					"CashAndCashEquivalentsSummaryOfBusinessResults",
					"CashAndCashEquivalents",
					"CashAndDeposits",
				},
				Keywords: map[string]int{
					"cashandcashequivalents": 15,
					"cashanddeposits":        12,
					"cash":                   8,
					"consolidated":           10,
					"flow":                   -20,
					"dividend":               -20,
				},
				Range:       ValidRange{Min: 0, Max: 100_000_000_000_000},
				Consolidate: true,
				Period:      PreferPeriodEnd,
			},
			{
				Name: "outstandingShares",
				Kind: KindCount,
				TagPatterns: []string{
					"TotalNumberOfIssuedSharesSummaryOfBusinessResults",
					"NumberOfIssuedAndOutstandingSharesAtTheEndOfFiscalYearIncludingTreasuryStock",
					"TotalNumberOfIssuedShares",
					"NumberOfIssuedShares",
				},
				Keywords: map[string]int{
					"sharesoutstanding": 15,
					"outstanding":       15,
					"sharesissued":      12,
					"issuedshares":      12,
					"issued":            12,
					"numberofshares":    10,
					"totalshares":       10,
					"commonshares":      8,
					"common":            8,
					"capitalstock":      6,
					"treasury":          -25,
					"authorized":        -25,
				},
				Range:       ValidRange{Min: 1_000, Max: 100_000_000_000},
				Consolidate: true,
				Period:      PreferPeriodEnd,
			},
			{
				Name: "eps",
				Kind: KindRatio,
				TagPatterns: []string{
					"DilutedEarningsPerShareSummaryOfBusinessResults",
					"BasicEarningsPerShareSummaryOfBusinessResults",
					"DilutedNetIncomePerShare",
					"BasicNetIncomePerShare",
					"BasicEarningsLossPerShareIFRSSummaryOfBusinessResults",
				},
				Keywords: map[string]int{
					"earningspershare":  15,
					"netincomepershare": 15,
					"diluted":           15,
					"basic":             12,
					"pershare":          10,
					"earnings":          8,
					"profit":            8,
					"dividend":          -25,
					"netassets":         -25,
				},
				Range:       ValidRange{Min: -10_000, Max: 10_000},
				Consolidate: true,
				Period:      PreferCurrentYear,
			},
			{
				Name: "per",
				Kind: KindRatio,
				TagPatterns: []string{
					"PriceEarningsRatioSummaryOfBusinessResults",
					"PriceEarningsRatio",
				},
				Keywords: map[string]int{
					"priceearningsratio": 15,
					"pricetoearnings":    15,
					"priceearnings":      12,
					"pemultiple":         10,
					"bookvalue":          -25,
				},
				Range:       ValidRange{Min: 0, Max: 1_000},
				Consolidate: true,
				Period:      PreferCurrentYear,
			},
			{
				Name: "pbr",
				Kind: KindRatio,
				TagPatterns: []string{
					"PriceBookValueRatioSummaryOfBusinessResults",
					"PriceBookValueRatio",
				},
				Keywords: map[string]int{
					"pricebookvalueratio": 15,
					"pricetobook":         15,
					"pricebook":           12,
					"earnings":            -25,
				},
				Range:       ValidRange{Min: 0, Max: 100},
				Consolidate: true,
				Period:      PreferCurrentYear,
			},
			{
				Name: "marketCapitalization",
				Kind: KindMonetary,
				TagPatterns: []string{
					"MarketCapitalizationSummaryOfBusinessResults",
					"MarketCapitalization",
				},
				Keywords: map[string]int{
					"marketcapitalization": 15,
					"marketcap":            12,
					"aggregatemarketvalue": 10,
				},
				Range:       ValidRange{Min: 100_000_000, Max: 1_000_000_000_000_000},
				Consolidate: true,
				Period:      PreferPeriodEnd,
			},
			{
				Name: "bookValuePerShare",
				Kind: KindRatio,
				TagPatterns: []string{
					"NetAssetsPerShareSummaryOfBusinessResults",
					"NetAssetsPerShare",
					"BookValuePerShare",
				},
				Keywords: map[string]int{
					"netassetspershare": 15,
					"bookvaluepershare": 15,
					"pershare":          8,
					"earnings":          -25,
					"dividend":          -25,
				},
				Range:       ValidRange{Min: 0, Max: 1_000_000},
				Consolidate: true,
				Period:      PreferPeriodEnd,
			},
		},
	}
}

// characteristicPatterns lists the tags carrying the business description
// text attached to the output record alongside the numeric metrics.
var characteristicPatterns = []string{
	"DescriptionOfBusiness",
	"BusinessDescription",
	"OutlineOfBusiness",
}
