// pkg/cleaner/cleaner.go
package cleaner

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/retailetl/sanitize/pkg/config"
	"github.com/retailetl/sanitize/pkg/table"
)

// Cleaner owns the per-entity cleaning pipelines. Allow-lists and
// conversion tables are injected at construction and never mutated at
// runtime; the cleaner holds no state across invocations.
type Cleaner struct {
	continents        map[string]struct{}
	countryCodes      map[string]struct{}
	timePeriods       map[string]struct{}
	productCategories map[string]struct{}
	weightFactors     map[string]float64
	currencyToken     string
	dateLayouts       []string
	logger            *zap.Logger
	now               func() time.Time
}

// New creates a Cleaner from configuration. A nil config uses the defaults.
func New(cfg *config.Config, logger *zap.Logger) (*Cleaner, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	factors := make(map[string]float64, len(cfg.WeightFactors))
	for unit, factor := range cfg.WeightFactors {
		factors[unit] = factor
	}

	return &Cleaner{
		continents:        newCategorySet(cfg.Continents),
		countryCodes:      newCategorySet(cfg.CountryCodes),
		timePeriods:       newCategorySet(cfg.TimePeriods),
		productCategories: newCategorySet(cfg.ProductCategories),
		weightFactors:     factors,
		currencyToken:     cfg.CurrencyToken,
		dateLayouts:       inferenceLayouts(cfg.DayFirst),
		logger:            logger,
		now:               time.Now,
	}, nil
}

// WithNow overrides the clock used for future-date checks
func (c *Cleaner) WithNow(now func() time.Time) *Cleaner {
	c.now = now
	return c
}

// Clean dispatches to the pipeline for the named entity kind
func (c *Cleaner) Clean(entity string, t *table.Table) (*table.Table, error) {
	switch entity {
	case "user":
		return c.CleanUserData(t)
	case "card":
		return c.CleanCardData(t)
	case "store":
		return c.CleanStoreData(t)
	case "product":
		return c.CleanProductData(t)
	case "order":
		return c.CleanOrderData(t)
	case "datetime":
		return c.CleanDateTimeData(t)
	default:
		return nil, fmt.Errorf("unknown entity kind %q", entity)
	}
}

// CleanUserData cleans user records: names, birth and join dates, country
// codes, phone numbers and email addresses. A valid user has a complete
// first and last name.
func (c *Cleaner) CleanUserData(t *table.Table) (*table.Table, error) {
	p := NewPipeline("user", c.logger).
		Append("standardize_nulls", standardizeNulls).
		Append("drop_unwanted_columns", dropUnwantedColumns).
		Append("clean_alpha", c.alphaStage("first_name", "last_name", "country")).
		Append("clean_dates", c.dateStage(c.dateLayouts, false, "date_of_birth", "join_date")).
		// "GGB" is a known source typo for "GB"; fix before validating
		Append("fix_country_code_typo", func(t *table.Table) (*table.Table, error) {
			return replaceInColumn(t, "country_code", "GGB", "GB")
		}).
		Append("clean_country_codes", c.categoryStage(c.countryCodes, "country_code")).
		Append("clean_phone_numbers", c.phoneStage("phone_number")).
		Append("clean_emails", c.emailStage("email_address")).
		Append("drop_incomplete_rows", func(t *table.Table) (*table.Table, error) {
			return dropIncompleteRows(t, []string{"first_name", "last_name"})
		})
	return p.Run(t)
}

// CleanCardData cleans payment card records. A valid card has a card number
// of at least 8 digits, a valid expiry date, and a payment confirmation
// date not in the future.
func (c *Cleaner) CleanCardData(t *table.Table) (*table.Table, error) {
	p := NewPipeline("card", c.logger).
		Append("standardize_nulls", standardizeNulls).
		Append("drop_unwanted_columns", dropUnwantedColumns).
		Append("clean_card_numbers", c.cardStage("card_number")).
		// Expiry dates have the fixed layout MM/YY
		Append("clean_expiry_dates", c.dateStage([]string{"01/06"}, true, "expiry_date")).
		Append("clean_payment_dates", c.dateStage(c.dateLayouts, false, "date_payment_confirmed")).
		Append("drop_incomplete_rows", func(t *table.Table) (*table.Table, error) {
			return dropIncompleteRows(t, []string{"card_number", "date_payment_confirmed", "expiry_date"})
		})
	return p.Run(t)
}

// CleanStoreData cleans store records: opening dates, country codes,
// continents, coordinate and staffing numbers, and textual type and
// locality fields. A valid store has an address, store type and country
// code.
func (c *Cleaner) CleanStoreData(t *table.Table) (*table.Table, error) {
	p := NewPipeline("store", c.logger).
		Append("standardize_nulls", standardizeNulls).
		Append("drop_unwanted_columns", dropUnwantedColumns).
		// "lat" duplicates "latitude" in the source extract and carries
		// almost no data; drop it when it is mostly null
		Append("drop_redundant_lat", func(t *table.Table) (*table.Table, error) {
			return dropMostlyNullColumn(t, "lat", 0.5)
		}).
		Append("clean_dates", c.dateStage(c.dateLayouts, true, "opening_date")).
		Append("clean_country_codes", c.categoryStage(c.countryCodes, "country_code")).
		// Some continents carry an erroneous "ee" prefix ("eeAmerica");
		// fix the typos and normalize case before validating
		Append("strip_continent_prefix", func(t *table.Table) (*table.Table, error) {
			return stripColumnPrefix(t, "continent", "ee")
		}).
		Append("capitalize_continent", func(t *table.Table) (*table.Table, error) {
			return capitalizeColumn(t, "continent")
		}).
		Append("clean_continents", c.categoryStage(c.continents, "continent")).
		Append("clean_alpha", c.alphaStage("store_type", "locality")).
		Append("clean_numeric", c.numericStage("", "latitude", "lat", "longitude", "staff_numbers")).
		Append("drop_incomplete_rows", func(t *table.Table) (*table.Table, error) {
			return dropIncompleteRows(t, []string{"address", "store_type", "country_code"})
		})
	return p.Run(t)
}

// CleanProductData cleans product records: weights converted to kilograms,
// prices stripped of the currency token, dates, categories and UUIDs.
// A product record must be 100% complete after cleaning.
func (c *Cleaner) CleanProductData(t *table.Table) (*table.Table, error) {
	p := NewPipeline("product", c.logger).
		Append("standardize_nulls", standardizeNulls).
		Append("drop_unwanted_columns", dropUnwantedColumns).
		Append("convert_weights", c.weightStage("weight")).
		Append("clean_prices", c.numericStage(c.currencyToken, "product_price")).
		Append("clean_dates", c.dateStage(c.dateLayouts, true, "date_added")).
		Append("clean_categories", c.categoryStage(c.productCategories, "category")).
		// Known source typo in the removed column
		Append("fix_removed_typo", func(t *table.Table) (*table.Table, error) {
			return replaceInColumn(t, "removed", "Still_avaliable", "Still_available")
		}).
		Append("clean_uuids", c.uuidStage("uuid")).
		Append("drop_incomplete_rows", func(t *table.Table) (*table.Table, error) {
			return dropIncompleteRows(t, t.Columns())
		})
	return p.Run(t)
}

// CleanOrderData cleans order records. Name columns are extraction
// artifacts and are dropped up front; after card number and quantity
// cleaning, any column still holding an absent cell failed to parse and is
// dropped wholesale. No individual order row is discarded.
func (c *Cleaner) CleanOrderData(t *table.Table) (*table.Table, error) {
	p := NewPipeline("order", c.logger).
		Append("standardize_nulls", standardizeNulls).
		Append("drop_unwanted_columns", dropUnwantedColumns).
		Append("drop_name_columns", func(t *table.Table) (*table.Table, error) {
			t.DropColumn("first_name")
			t.DropColumn("last_name")
			return t, nil
		}).
		Append("clean_card_numbers", c.cardStage("card_number")).
		Append("clean_quantities", c.numericStage("", "product_quantity")).
		Append("drop_incomplete_columns", dropIncompleteColumns)
	return p.Run(t)
}

// CleanDateTimeData cleans date/time event records: numeric day, month and
// year parts, the categorical time period, timestamp validity, and the
// event UUID. Rows must be fully complete; day/month/year become integer
// cells once absent markers are gone.
func (c *Cleaner) CleanDateTimeData(t *table.Table) (*table.Table, error) {
	p := NewPipeline("datetime", c.logger).
		Append("standardize_nulls", standardizeNulls).
		Append("drop_unwanted_columns", dropUnwantedColumns).
		Append("clean_numeric", c.numericStage("", "month", "day", "year")).
		Append("clean_time_periods", c.categoryStage(c.timePeriods, "time_period")).
		Append("validate_timestamps", c.timestampStage("timestamp")).
		Append("clean_uuids", c.uuidStage("date_uuid")).
		Append("drop_incomplete_rows", func(t *table.Table) (*table.Table, error) {
			return dropIncompleteRows(t, t.Columns())
		}).
		Append("cast_date_parts_to_int", func(t *table.Table) (*table.Table, error) {
			return castColumnsToInt(t, []string{"month", "day", "year"})
		})
	return p.Run(t)
}

// Stage builders binding cell validators to target columns

func (c *Cleaner) alphaStage(columns ...string) StageFunc {
	return func(t *table.Table) (*table.Table, error) {
		return applyToColumns(t, columns, cleanAlphaCell)
	}
}

func (c *Cleaner) numericStage(currency string, columns ...string) StageFunc {
	return func(t *table.Table) (*table.Table, error) {
		return applyToColumns(t, columns, func(v table.Value) table.Value {
			return cleanNumericCell(v, currency)
		})
	}
}

func (c *Cleaner) categoryStage(allowed map[string]struct{}, columns ...string) StageFunc {
	return func(t *table.Table) (*table.Table, error) {
		return applyToColumns(t, columns, func(v table.Value) table.Value {
			return cleanCategoryCell(v, allowed)
		})
	}
}

func (c *Cleaner) dateStage(layouts []string, futureDatesValid bool, columns ...string) StageFunc {
	return func(t *table.Table) (*table.Table, error) {
		now := c.now()
		return applyToColumns(t, columns, func(v table.Value) table.Value {
			return parseDateCell(v, layouts, futureDatesValid, now)
		})
	}
}

func (c *Cleaner) phoneStage(columns ...string) StageFunc {
	return func(t *table.Table) (*table.Table, error) {
		return applyToColumns(t, columns, cleanPhoneCell)
	}
}

func (c *Cleaner) emailStage(columns ...string) StageFunc {
	return func(t *table.Table) (*table.Table, error) {
		return applyToColumns(t, columns, cleanEmailCell)
	}
}

func (c *Cleaner) cardStage(columns ...string) StageFunc {
	return func(t *table.Table) (*table.Table, error) {
		return applyToColumns(t, columns, cleanCardCell)
	}
}

func (c *Cleaner) uuidStage(columns ...string) StageFunc {
	return func(t *table.Table) (*table.Table, error) {
		return applyToColumns(t, columns, cleanUUIDCell)
	}
}

func (c *Cleaner) weightStage(columns ...string) StageFunc {
	return func(t *table.Table) (*table.Table, error) {
		return applyToColumns(t, columns, func(v table.Value) table.Value {
			return parseWeightCell(v, c.weightFactors)
		})
	}
}

func (c *Cleaner) timestampStage(columns ...string) StageFunc {
	return func(t *table.Table) (*table.Table, error) {
		return applyToColumns(t, columns, validateTimestampCell)
	}
}
