package service

import (
	"testing"
	"time"

	"github.com/sabor-next/internal/constants"
	"github.com/sabor-next/internal/models"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func schedulePromotion() *models.Promotion {
	return &models.Promotion{
		Type:       constants.PromotionTypeBundleSpecial,
		Name:       "menú del día",
		IsActive:   true,
		ValidFrom:  datePtr(2025, time.December, 10),
		ValidUntil: datePtr(2025, time.December, 20),
		TimeFrom:   strPtr("12:00:00"),
		TimeUntil:  strPtr("18:00:00"),
		Weekdays:   models.IntArray{constants.WeekdayMonday},
	}
}

func TestPromotionValidAtFullSchedule(t *testing.T) {
	promotion := schedulePromotion()

	// 2025-12-15 是周一
	monday := time.Date(2025, time.December, 15, 14, 30, 0, 0, time.UTC)
	if !PromotionValidAt(promotion, monday) {
		t.Fatalf("expected valid at monday 14:30 inside window")
	}

	evening := time.Date(2025, time.December, 15, 20, 0, 0, 0, time.UTC)
	if PromotionValidAt(promotion, evening) {
		t.Fatalf("expected invalid at 20:00 outside daily window")
	}

	tuesday := time.Date(2025, time.December, 16, 14, 30, 0, 0, time.UTC)
	if PromotionValidAt(promotion, tuesday) {
		t.Fatalf("expected invalid on tuesday, weekdays only allow monday")
	}
}

func TestPromotionValidAtAndComposition(t *testing.T) {
	monday := time.Date(2025, time.December, 15, 14, 30, 0, 0, time.UTC)

	base := schedulePromotion()
	if !PromotionValidAt(base, monday) {
		t.Fatalf("baseline should be valid")
	}

	inactive := schedulePromotion()
	inactive.IsActive = false
	if PromotionValidAt(inactive, monday) {
		t.Fatalf("is_active=false must fail closed")
	}

	outOfRange := schedulePromotion()
	outOfRange.ValidUntil = datePtr(2025, time.December, 14)
	if PromotionValidAt(outOfRange, monday) {
		t.Fatalf("date after valid_until must be invalid")
	}

	outOfWindow := schedulePromotion()
	outOfWindow.TimeUntil = strPtr("13:00:00")
	if PromotionValidAt(outOfWindow, monday) {
		t.Fatalf("time outside daily window must be invalid")
	}

	wrongWeekday := schedulePromotion()
	wrongWeekday.Weekdays = models.IntArray{2}
	if PromotionValidAt(wrongWeekday, monday) {
		t.Fatalf("weekday not in set must be invalid")
	}
}

func TestPromotionValidAtInclusiveBounds(t *testing.T) {
	promotion := schedulePromotion()
	promotion.Weekdays = nil

	firstDayNoon := time.Date(2025, time.December, 10, 12, 0, 0, 0, time.UTC)
	if !PromotionValidAt(promotion, firstDayNoon) {
		t.Fatalf("valid_from day and time_from instant are inclusive")
	}

	lastDayClose := time.Date(2025, time.December, 20, 18, 0, 0, 0, time.UTC)
	if !PromotionValidAt(promotion, lastDayClose) {
		t.Fatalf("valid_until day and time_until instant are inclusive")
	}
}

func TestPromotionValidAtOpenBounds(t *testing.T) {
	open := &models.Promotion{IsActive: true}

	farPast := time.Date(1999, time.January, 1, 3, 0, 0, 0, time.UTC)
	farFuture := time.Date(2099, time.June, 30, 23, 59, 59, 0, time.UTC)
	if !PromotionValidAt(open, farPast) || !PromotionValidAt(open, farFuture) {
		t.Fatalf("promotion without temporal limits must be valid at any instant")
	}

	// 只设起始日期：之后永远有效
	fromOnly := &models.Promotion{IsActive: true, ValidFrom: datePtr(2025, time.January, 1)}
	if !PromotionValidAt(fromOnly, farFuture) {
		t.Fatalf("valid_from only keeps promotion valid indefinitely")
	}
	if PromotionValidAt(fromOnly, farPast) {
		t.Fatalf("before valid_from must be invalid")
	}

	// 只设一侧时段：时段维度不生效
	halfWindow := &models.Promotion{IsActive: true, TimeFrom: strPtr("12:00:00")}
	if !PromotionValidAt(halfWindow, time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("daily window requires both ends to be set")
	}
}

func TestPromotionValidAtWeekdayMembership(t *testing.T) {
	monday := time.Date(2025, time.December, 15, 10, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, time.December, 14, 10, 0, 0, 0, time.UTC)

	promotion := &models.Promotion{IsActive: true, Weekdays: models.IntArray{constants.WeekdaySunday}}
	if !PromotionValidAt(promotion, sunday) {
		t.Fatalf("sunday must map to ISO weekday 7")
	}
	if PromotionValidAt(promotion, monday) {
		t.Fatalf("monday must not match weekdays=[7]")
	}

	unrestricted := &models.Promotion{IsActive: true, Weekdays: models.IntArray{}}
	if !PromotionValidAt(unrestricted, monday) {
		t.Fatalf("empty weekday set must pass")
	}
}

func TestPromotionValidAtOvernightWindowNeverMatches(t *testing.T) {
	promotion := &models.Promotion{
		IsActive:  true,
		TimeFrom:  strPtr("22:00:00"),
		TimeUntil: strPtr("02:00:00"),
	}

	instants := []time.Time{
		time.Date(2025, time.May, 1, 23, 0, 0, 0, time.UTC),
		time.Date(2025, time.May, 1, 1, 0, 0, 0, time.UTC),
		time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, at := range instants {
		if PromotionValidAt(promotion, at) {
			t.Fatalf("time_from > time_until must never match, got valid at %s", at)
		}
	}
}

func TestPromotionDateBoundsIgnoreZoneOffset(t *testing.T) {
	madrid := time.FixedZone("CEST", 2*3600)

	// 边界日期按 UTC 存储，参考时刻在本地时区的当日凌晨
	promotion := &models.Promotion{
		IsActive:  true,
		ValidFrom: datePtr(2026, time.June, 1),
	}
	localMidnight := time.Date(2026, time.June, 1, 0, 30, 0, 0, madrid)
	if !PromotionValidAt(promotion, localMidnight) {
		t.Fatalf("valid_from day must be inclusive regardless of the reference zone")
	}
	if PromotionUpcoming(promotion, localMidnight) {
		t.Fatalf("start day is not upcoming even near local midnight")
	}

	honolulu := time.FixedZone("HST", -10*3600)
	ending := &models.Promotion{
		IsActive:   true,
		ValidUntil: datePtr(2026, time.June, 1),
	}
	lateLocal := time.Date(2026, time.June, 1, 23, 30, 0, 0, honolulu)
	if !PromotionValidAt(ending, lateLocal) {
		t.Fatalf("valid_until day must stay inclusive in a negative-offset zone")
	}
	if PromotionExpired(ending, lateLocal) {
		t.Fatalf("end day is not expired even near local midnight")
	}

	nextLocalDay := time.Date(2026, time.June, 2, 0, 30, 0, 0, honolulu)
	if PromotionValidAt(ending, nextLocalDay) {
		t.Fatalf("day after valid_until must be invalid")
	}
	if !PromotionExpired(ending, nextLocalDay) {
		t.Fatalf("day after valid_until must be expired")
	}
}

func TestPromotionExpiredAndUpcoming(t *testing.T) {
	today := time.Date(2025, time.December, 15, 9, 0, 0, 0, time.UTC)

	expired := &models.Promotion{IsActive: true, ValidUntil: datePtr(2025, time.December, 14)}
	if !PromotionExpired(expired, today) {
		t.Fatalf("valid_until before today must be expired")
	}

	endsToday := &models.Promotion{IsActive: true, ValidUntil: datePtr(2025, time.December, 15)}
	if PromotionExpired(endsToday, today) {
		t.Fatalf("valid_until equal to today is not expired")
	}

	endless := &models.Promotion{IsActive: true}
	if PromotionExpired(endless, today) {
		t.Fatalf("promotion without valid_until is never expired")
	}

	upcoming := &models.Promotion{IsActive: true, ValidFrom: datePtr(2025, time.December, 16)}
	if !PromotionUpcoming(upcoming, today) {
		t.Fatalf("valid_from after today must be upcoming")
	}

	startsToday := &models.Promotion{IsActive: true, ValidFrom: datePtr(2025, time.December, 15)}
	if PromotionUpcoming(startsToday, today) {
		t.Fatalf("valid_from equal to today is not upcoming")
	}

	alwaysOn := &models.Promotion{IsActive: true}
	if PromotionUpcoming(alwaysOn, today) {
		t.Fatalf("promotion without valid_from is never upcoming")
	}
}
