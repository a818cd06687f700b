package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr       string
	AdminToken string

	// PostgresDSN switches contract/payment stores from memory to Postgres
	// when set. Empty means in-memory stores (the default deployment).
	PostgresDSN string

	Redis RedisConfig
	Kafka KafkaConfig

	Contracts ContractConfig
	Payments  PaymentConfig
	Tenants   TenantConfig
}

// RedisConfig controls the optional tenant-balance mirror.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig controls the optional audit event publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// ContractConfig carries contract-manager policy knobs.
type ContractConfig struct {
	AutoRenewalNoticeDays     int
	SecurityDepositMultiplier float64
	MaxLeaseTermMonths        int
}

// PaymentConfig carries payment-manager policy knobs.
type PaymentConfig struct {
	LateFeeRate          float64
	GracePeriodDays      int
	DefaultPaymentMethod string
}

// TenantConfig carries tenant-approval policy knobs.
type TenantConfig struct {
	MinimumCreditScore       float64
	MinimumIncomeToRentRatio float64
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:        envOr("LEASEHOLD_ADDR", ":8080"),
		AdminToken:  envOr("LEASEHOLD_ADMIN_TOKEN", "dev-admin-token"),
		PostgresDSN: os.Getenv("LEASEHOLD_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("LEASEHOLD_REDIS_URL"),
			PoolSize:     envIntOr("LEASEHOLD_REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("LEASEHOLD_REDIS_MIN_IDLE", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Contracts: ContractConfig{
			AutoRenewalNoticeDays:     envIntOr("LEASEHOLD_RENEWAL_NOTICE_DAYS", 30),
			SecurityDepositMultiplier: envFloatOr("LEASEHOLD_DEPOSIT_MULTIPLIER", 1.5),
			MaxLeaseTermMonths:        envIntOr("LEASEHOLD_MAX_LEASE_MONTHS", 24),
		},
		Payments: PaymentConfig{
			LateFeeRate:          envFloatOr("LEASEHOLD_LATE_FEE_RATE", 0.01),
			GracePeriodDays:      envIntOr("LEASEHOLD_GRACE_PERIOD_DAYS", 5),
			DefaultPaymentMethod: envOr("LEASEHOLD_DEFAULT_PAYMENT_METHOD", "bank_transfer"),
		},
		Tenants: TenantConfig{
			MinimumCreditScore:       envFloatOr("LEASEHOLD_MIN_CREDIT_SCORE", 650),
			MinimumIncomeToRentRatio: envFloatOr("LEASEHOLD_MIN_INCOME_RATIO", 0.3),
		},
	}

	if brokers := os.Getenv("LEASEHOLD_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka = KafkaConfig{
			Brokers: splitComma(brokers),
			Topic:   envOr("LEASEHOLD_KAFKA_TOPIC", "leasehold.audit"),
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func splitComma(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
