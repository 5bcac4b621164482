package sheets

// A1 ranges of the farm workbook. Each tab starts with a header row.
//
//	Flocks           id | name | count | status | birth_date
//	Production       date | flock_id | eggs | deaths | notes
//	FeedPurchases    date | quantity_kg | cost
//	FeedConsumption  date | flock_id | quantity_kg
//	Outbreaks        date | flock_id | disease | status | deaths
//	Vaccines         flock_id | name | scheduled_date | status
//	Stress           date | kind | severity
//	Weather          date | temp_c | humidity_pct
//	Expenses         date | category | amount
//	Income           date | client | quantity | unit_price | amount
//	Pests            date | zone | severity | resolved
//	Zones            name | risk_level
//	Settings         key | value
const (
	FlocksRange          = "Flocks!A:E"
	ProductionRange      = "Production!A:E"
	FeedPurchasesRange   = "FeedPurchases!A:C"
	FeedConsumptionRange = "FeedConsumption!A:C"
	OutbreaksRange       = "Outbreaks!A:E"
	VaccinesRange        = "Vaccines!A:D"
	StressRange          = "Stress!A:C"
	WeatherRange         = "Weather!A:C"
	ExpensesRange        = "Expenses!A:C"
	IncomeRange          = "Income!A:E"
	PestsRange           = "Pests!A:D"
	ZonesRange           = "Zones!A:B"
	SettingsRange        = "Settings!A:B"
)

// DateLayout is the date format written to and preferred when reading the workbook.
const DateLayout = "2006-01-02"

// Settings tab keys.
const (
	SettingMinFeedStock    = "min_feed_stock"
	SettingMaxMortality    = "max_mortality"
	SettingAlertDaysBefore = "alert_days_before"
)
