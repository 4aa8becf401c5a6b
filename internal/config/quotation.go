package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// DefaultTerms is the terms text applied to new quotations that do not bring their own.
const DefaultTerms = "Esta cotización es válida por 30 días. Los precios incluyen IVA del 19%. " +
	"Los términos de pago son 50% anticipo y 50% contra entrega."

// QuotationDefaults are the values applied when a new quotation omits them.
type QuotationDefaults struct {
	TaxPercentage float64
	ValidityDays  int
	Currency      string
	Terms         string
}

func DefaultQuotationDefaults() QuotationDefaults {
	return QuotationDefaults{
		TaxPercentage: 19,
		ValidityDays:  30,
		Currency:      "COP",
		Terms:         DefaultTerms,
	}
}

type QuotationDefaultsHolder struct {
	current atomic.Value // holds QuotationDefaults
}

// NewStaticQuotationDefaults returns a holder that never reloads.
func NewStaticQuotationDefaults(d QuotationDefaults) *QuotationDefaultsHolder {
	holder := &QuotationDefaultsHolder{}
	holder.current.Store(d)
	return holder
}

func NewQuotationDefaultsHolder(log *zap.Logger) (*QuotationDefaultsHolder, error) {
	v := viper.New()

	v.SetConfigName("quotation")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/quotely")
	v.AddConfigPath(".")

	v.SetEnvPrefix("QUOTELY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultQuotationDefaults()
	v.SetDefault("quotation.taxPercentage", defaults.TaxPercentage)
	v.SetDefault("quotation.validityDays", defaults.ValidityDays)
	v.SetDefault("quotation.currency", defaults.Currency)
	v.SetDefault("quotation.terms", defaults.Terms)

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		found = false
	}

	cfg := readQuotationDefaults(v)
	if err := validateQuotationDefaults(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticQuotationDefaults(cfg)
	if !found {
		return holder, nil
	}

	log = log.Named("config.quotation")
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated := readQuotationDefaults(v)
		if err := validateQuotationDefaults(updated); err != nil {
			log.Warn("invalid config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *QuotationDefaultsHolder) Get() QuotationDefaults {
	return h.current.Load().(QuotationDefaults)
}

// Leaf lookups fall back to the registered defaults key by key.
func readQuotationDefaults(v *viper.Viper) QuotationDefaults {
	return QuotationDefaults{
		TaxPercentage: v.GetFloat64("quotation.taxPercentage"),
		ValidityDays:  v.GetInt("quotation.validityDays"),
		Currency:      strings.ToUpper(strings.TrimSpace(v.GetString("quotation.currency"))),
		Terms:         v.GetString("quotation.terms"),
	}
}

func validateQuotationDefaults(cfg QuotationDefaults) error {
	if cfg.TaxPercentage < 0 {
		return errors.New("quotation.taxPercentage cannot be negative")
	}
	if cfg.ValidityDays <= 0 {
		return errors.New("quotation.validityDays must be positive")
	}
	if strings.TrimSpace(cfg.Currency) == "" {
		return errors.New("quotation.currency cannot be empty")
	}
	return nil
}
