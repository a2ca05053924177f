package feeds

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"subwaystatus.org/internal/logging"
	"subwaystatus.org/internal/models"
)

const (
	notAvailable           = "N/A"
	placeholderHeader      = "Alert Parsing Error"
	placeholderDescription = "Could not read alert details."
)

var errMissingTranslationText = errors.New("translation has no text")

// PlaceholderAlert stands in for an alert that could not be extracted.
func PlaceholderAlert() models.ProjectedAlert {
	return models.ProjectedAlert{Header: placeholderHeader, Description: placeholderDescription}
}

// ProjectAlert normalizes one alert. Header and description take the first
// translation, or "N/A" when there is none. Only active periods with at
// least one bound are kept.
func ProjectAlert(a Alert) (models.ProjectedAlert, error) {
	header, err := firstTranslation(a.HeaderText)
	if err != nil {
		return models.ProjectedAlert{}, fmt.Errorf("header_text: %w", err)
	}
	description, err := firstTranslation(a.DescriptionText)
	if err != nil {
		return models.ProjectedAlert{}, fmt.Errorf("description_text: %w", err)
	}

	out := models.ProjectedAlert{
		Header:           header,
		Description:      description,
		ActivePeriod:     make([]models.ActivePeriod, 0, len(a.ActivePeriods)),
		InformedEntities: make([]models.InformedEntity, 0, len(a.InformedEntities)),
	}

	for i, p := range a.ActivePeriods {
		if p.Start == nil && p.End == nil {
			continue
		}
		start, err := toUnix(p.Start)
		if err != nil {
			return models.ProjectedAlert{}, fmt.Errorf("active_period[%d].start: %w", i, err)
		}
		end, err := toUnix(p.End)
		if err != nil {
			return models.ProjectedAlert{}, fmt.Errorf("active_period[%d].end: %w", i, err)
		}
		out.ActivePeriod = append(out.ActivePeriod, models.ActivePeriod{Start: start, End: end})
	}

	for _, ie := range a.InformedEntities {
		out.InformedEntities = append(out.InformedEntities, models.InformedEntity{
			RouteID: ie.RouteID,
			StopID:  ie.StopID,
		})
	}

	return out, nil
}

// ProjectAlerts projects every alert entity in order. A failing alert,
// including one that panics, is replaced by PlaceholderAlert and the rest of
// the batch continues. The number of placeholders is returned alongside.
func ProjectAlerts(entities []*AlertEntity, logger *slog.Logger) ([]models.ProjectedAlert, int) {
	out := make([]models.ProjectedAlert, 0, len(entities))
	failed := 0

	for _, e := range entities {
		projected, err := safeProjectAlert(e.Alert)
		if err != nil {
			failed++
			logging.LogWarn(logger, "could not parse alert", err, slog.String("entity_id", e.ID))
			out = append(out, PlaceholderAlert())
			continue
		}
		out = append(out, projected)
	}

	return out, failed
}

func safeProjectAlert(a Alert) (projected models.ProjectedAlert, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while projecting alert: %v", r)
		}
	}()
	return ProjectAlert(a)
}

func firstTranslation(ts []Translation) (string, error) {
	if len(ts) == 0 {
		return notAvailable, nil
	}
	if ts[0].Text == nil {
		return "", errMissingTranslationText
	}
	return *ts[0].Text, nil
}

func toUnix(v *uint64) (*int64, error) {
	if v == nil {
		return nil, nil
	}
	if *v > math.MaxInt64 {
		return nil, fmt.Errorf("timestamp %d out of range", *v)
	}
	t := int64(*v)
	return &t, nil
}
