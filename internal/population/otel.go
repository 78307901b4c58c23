package population

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/litescript/ls-stellar/internal/population"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
