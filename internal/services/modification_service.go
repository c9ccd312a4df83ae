package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"wayfarer/internal/models/db_models"
	"wayfarer/internal/models/response_models"
	"wayfarer/internal/repositories"
	"wayfarer/pkg/utils"
)

const (
	modHotelExtend  = "hotel_extend"
	modHotelShorten = "hotel_shorten"
	modSeatUpgrade  = "seat_upgrade"
	modRoomUpgrade  = "room_upgrade"
	modUnknown      = "unknown"
)

type modificationIntent struct {
	kind     string
	nights   int
	cabin    db_models.CabinClass
	roomType string
}

var (
	hotelExtendRe  = regexp.MustCompile(`(?:extend|add|extra|more)\s+(?:my\s+)?(?:hotel(?:\s+stay)?\s+)?(?:by\s+)?(\w+|\d+)\s+(?:more\s+)?night`)
	hotelShortenRe = regexp.MustCompile(`(?:shorten|reduce|cut|fewer)\s+(?:my\s+)?(?:hotel(?:\s+stay)?\s+)?(?:by\s+)?(\w+|\d+)\s+night`)
	seatUpgradeRe  = regexp.MustCompile(`(business\s+class|first\s+class|premium\s+economy)`)
	roomUpgradeRe  = regexp.MustCompile(`(suite|upgrade\s+(?:my\s+)?(?:hotel\s+)?room|better\s+room|king\s+room)`)
)

var wordNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"a": 1, "an": 1,
}

var cabinPremiums = map[db_models.CabinClass]int{
	db_models.CabinPremiumEconomy: 350,
	db_models.CabinBusiness:       1200,
	db_models.CabinFirst:          2500,
}

var roomUpgradeNames = map[string]string{
	"suite":  "Junior Suite",
	"king":   "King Room",
	"deluxe": "Deluxe Room",
}

var roomUpgradeCosts = map[string]int{
	"suite":  150,
	"king":   50,
	"deluxe": 80,
}

// HotelModifier performs hotel date changes against the live booking channel.
// The default implementation reports the change as unsupported so callers get
// a clear "contact the hotel" message instead of a silent no-op.
type HotelModifier interface {
	ChangeCheckOut(ctx context.Context, booking *db_models.Booking, hotel *db_models.HotelDetails, newCheckOut string, nightsDelta int) (*db_models.HotelDetails, error)
}

func NewLiveHotelModifier() HotelModifier {
	return liveHotelModifier{}
}

type liveHotelModifier struct{}

func (liveHotelModifier) ChangeCheckOut(_ context.Context, _ *db_models.Booking, _ *db_models.HotelDetails, _ string, _ int) (*db_models.HotelDetails, error) {
	return nil, utils.ErrUnsupportedLive
}

type ModificationServiceInterface interface {
	ApplyModification(ctx context.Context, tripID uuid.UUID, request string) (*response_models.ModificationResult, error)
}

func NewModificationService(
	tripRepo repositories.TripRepositoryInterface,
	bookingRepo repositories.BookingRepositoryInterface,
	hotelModifier HotelModifier,
	mockMode bool,
) ModificationServiceInterface {
	return modificationService{
		tripRepo:      tripRepo,
		bookingRepo:   bookingRepo,
		hotelModifier: hotelModifier,
		mockMode:      mockMode,
	}
}

type modificationService struct {
	tripRepo      repositories.TripRepositoryInterface
	bookingRepo   repositories.BookingRepositoryInterface
	hotelModifier HotelModifier
	mockMode      bool
}

func (s modificationService) ApplyModification(ctx context.Context, tripID uuid.UUID, request string) (*response_models.ModificationResult, error) {
	trip, err := s.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}

	intent := classifyModification(request)

	switch intent.kind {
	case modHotelExtend:
		return s.hotelExtend(ctx, tripID, intent.nights)
	case modHotelShorten:
		return s.hotelShorten(ctx, tripID, intent.nights)
	case modSeatUpgrade:
		return s.seatUpgrade(ctx, tripID, intent.cabin)
	case modRoomUpgrade:
		return s.roomUpgrade(ctx, tripID, intent.roomType)
	}

	return &response_models.ModificationResult{
		Success:          false,
		ModificationType: modUnknown,
		Message: "Could not understand that modification request. " +
			"Try: 'extend my hotel by 2 nights', 'upgrade to business class', " +
			"or 'upgrade to a suite'.",
	}, nil
}

func classifyModification(request string) modificationIntent {
	r := strings.TrimSpace(strings.ToLower(request))

	if m := hotelExtendRe.FindStringSubmatch(r); m != nil {
		return modificationIntent{kind: modHotelExtend, nights: wordToNights(m[1])}
	}
	if m := hotelShortenRe.FindStringSubmatch(r); m != nil {
		return modificationIntent{kind: modHotelShorten, nights: wordToNights(m[1])}
	}
	if seatUpgradeRe.MatchString(r) {
		cabin := db_models.CabinPremiumEconomy
		if strings.Contains(r, "business") {
			cabin = db_models.CabinBusiness
		} else if strings.Contains(r, "first") {
			cabin = db_models.CabinFirst
		}
		return modificationIntent{kind: modSeatUpgrade, cabin: cabin}
	}
	if roomUpgradeRe.MatchString(r) {
		roomType := "deluxe"
		if strings.Contains(r, "suite") {
			roomType = "suite"
		} else if strings.Contains(r, "king") {
			roomType = "king"
		}
		return modificationIntent{kind: modRoomUpgrade, roomType: roomType}
	}
	return modificationIntent{kind: modUnknown}
}

func wordToNights(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if n, ok := wordNumbers[strings.ToLower(s)]; ok {
		return n
	}
	return 1
}

func (s modificationService) hotelExtend(ctx context.Context, tripID uuid.UUID, nights int) (*response_models.ModificationResult, error) {
	booking, details, hotel, err := s.confirmedHotelBooking(ctx, tripID)
	if err != nil {
		return failedModification("No confirmed hotel booking found on this trip."), nil
	}

	checkOut, err := time.Parse("2006-01-02", hotel.CheckOut)
	if err != nil {
		return failedModification(fmt.Sprintf("Could not parse hotel check-out date: %q", hotel.CheckOut)), nil
	}
	newCheckOut := checkOut.AddDate(0, 0, nights).Format("2006-01-02")

	updated, err := s.changeCheckOut(ctx, booking, hotel, newCheckOut, nights)
	if err != nil {
		log.Printf("live hotel modify failed for trip %s: %v", tripID, err)
		return failedModification("Live hotel modification failed. Please contact the hotel directly."), nil
	}

	details.Hotel = updated
	if err := s.persistDetails(ctx, booking, details); err != nil {
		return nil, err
	}

	extraCost := updated.PricePerNightUSD * float64(nights)
	msg := fmt.Sprintf("Hotel check-out extended by %d night(s) to %s.", nights, newCheckOut)
	if extraCost > 0 {
		msg += fmt.Sprintf(" Estimated extra cost: $%s.", formatUSD(extraCost))
	}
	return &response_models.ModificationResult{
		Success:          true,
		ModificationType: modHotelExtend,
		Message:          msg,
		UpdatedDetails:   updated,
	}, nil
}

func (s modificationService) hotelShorten(ctx context.Context, tripID uuid.UUID, nights int) (*response_models.ModificationResult, error) {
	booking, details, hotel, err := s.confirmedHotelBooking(ctx, tripID)
	if err != nil {
		return failedModification("No confirmed hotel booking found on this trip."), nil
	}

	checkOut, errOut := time.Parse("2006-01-02", hotel.CheckOut)
	checkIn, errIn := time.Parse("2006-01-02", hotel.CheckIn)
	if errOut != nil || errIn != nil {
		return failedModification("Could not parse hotel dates."), nil
	}

	newCheckOut := checkOut.AddDate(0, 0, -nights)
	if !newCheckOut.After(checkIn) {
		return failedModification("Cannot shorten the stay - that would result in a zero or negative duration."), nil
	}

	updated, err := s.changeCheckOut(ctx, booking, hotel, newCheckOut.Format("2006-01-02"), -nights)
	if err != nil {
		log.Printf("live hotel modify failed for trip %s: %v", tripID, err)
		return failedModification("Live hotel modification failed. Please contact the hotel directly."), nil
	}

	details.Hotel = updated
	if err := s.persistDetails(ctx, booking, details); err != nil {
		return nil, err
	}

	return &response_models.ModificationResult{
		Success:          true,
		ModificationType: modHotelShorten,
		Message:          fmt.Sprintf("Hotel check-out moved up by %d night(s) to %s.", nights, newCheckOut.Format("2006-01-02")),
		UpdatedDetails:   updated,
	}, nil
}

func (s modificationService) seatUpgrade(ctx context.Context, tripID uuid.UUID, cabin db_models.CabinClass) (*response_models.ModificationResult, error) {
	bookings, err := s.bookingRepo.ListConfirmedByTripAndType(ctx, tripID, db_models.BookingTypeFlight)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if len(bookings) == 0 {
		return failedModification("No confirmed flight booking found on this trip."), nil
	}
	booking := bookings[0]

	details, err := booking.DecodeDetails()
	if err != nil || details.Flight == nil {
		return failedModification("No confirmed flight booking found on this trip."), nil
	}
	flight := details.Flight

	currentCabin := flight.Cabin
	if currentCabin == "" {
		currentCabin = db_models.CabinEconomy
	}
	if currentCabin == cabin {
		return failedModification(fmt.Sprintf("Flight is already booked in %s.", cabin)), nil
	}

	if !s.mockMode {
		return failedModification("Live seat upgrades require contacting the airline directly. " +
			"Please call the carrier to request an upgrade."), nil
	}

	upgradeCost := cabinPremiums[cabin] - cabinPremiums[currentCabin]
	flight.Cabin = cabin

	if err := s.persistDetails(ctx, &booking, details); err != nil {
		return nil, err
	}

	return &response_models.ModificationResult{
		Success:          true,
		ModificationType: modSeatUpgrade,
		Message: fmt.Sprintf("Cabin upgraded from %s to %s. Estimated upgrade cost: $%s.",
			cabinLabel(currentCabin), cabinLabel(cabin), formatUSDInt(upgradeCost)),
		UpdatedDetails: flight,
	}, nil
}

func (s modificationService) roomUpgrade(ctx context.Context, tripID uuid.UUID, roomType string) (*response_models.ModificationResult, error) {
	booking, details, hotel, err := s.confirmedHotelBooking(ctx, tripID)
	if err != nil {
		return failedModification("No confirmed hotel booking found on this trip."), nil
	}

	currentRoom := hotel.RoomType
	if currentRoom == "" {
		currentRoom = "Standard Room"
	}

	if !s.mockMode {
		return failedModification("Live room upgrades require contacting the hotel directly. " +
			"Please call the property or use their app to request a room change."), nil
	}

	newRoom, ok := roomUpgradeNames[roomType]
	if !ok {
		newRoom = "Upgraded Room"
	}
	extraPerNight, ok := roomUpgradeCosts[roomType]
	if !ok {
		extraPerNight = 60
	}

	nights := 1
	checkOut, errOut := time.Parse("2006-01-02", hotel.CheckOut)
	checkIn, errIn := time.Parse("2006-01-02", hotel.CheckIn)
	if errOut == nil && errIn == nil {
		if d := int(checkOut.Sub(checkIn).Hours() / 24); d > 1 {
			nights = d
		}
	}
	extraTotal := float64(extraPerNight * nights)

	hotel.RoomType = newRoom
	if err := s.persistDetails(ctx, booking, details); err != nil {
		return nil, err
	}

	return &response_models.ModificationResult{
		Success:          true,
		ModificationType: modRoomUpgrade,
		Message: fmt.Sprintf("Room upgraded from %q to %q. Estimated extra cost: $%s.",
			currentRoom, newRoom, formatUSD(extraTotal)),
		UpdatedDetails: hotel,
	}, nil
}

func (s modificationService) confirmedHotelBooking(ctx context.Context, tripID uuid.UUID) (*db_models.Booking, db_models.BookingDetails, *db_models.HotelDetails, error) {
	bookings, err := s.bookingRepo.ListConfirmedByTripAndType(ctx, tripID, db_models.BookingTypeHotel)
	if err != nil {
		return nil, db_models.BookingDetails{}, nil, utils.ErrDatabaseError
	}
	if len(bookings) == 0 {
		return nil, db_models.BookingDetails{}, nil, utils.ErrNoMatchingBooking
	}
	booking := bookings[0]

	details, err := booking.DecodeDetails()
	if err != nil || details.Hotel == nil {
		return nil, db_models.BookingDetails{}, nil, utils.ErrNoMatchingBooking
	}
	return &booking, details, details.Hotel, nil
}

func (s modificationService) changeCheckOut(ctx context.Context, booking *db_models.Booking, hotel *db_models.HotelDetails, newCheckOut string, nightsDelta int) (*db_models.HotelDetails, error) {
	if s.mockMode {
		updated := *hotel
		updated.CheckOut = newCheckOut
		return &updated, nil
	}
	return s.hotelModifier.ChangeCheckOut(ctx, booking, hotel, newCheckOut, nightsDelta)
}

func (s modificationService) persistDetails(ctx context.Context, booking *db_models.Booking, details db_models.BookingDetails) error {
	if err := booking.EncodeDetails(details); err != nil {
		return utils.ErrDatabaseError
	}
	if err := s.bookingRepo.UpdateDetails(ctx, booking.ID, booking.Details); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func failedModification(message string) *response_models.ModificationResult {
	return &response_models.ModificationResult{
		Success:          false,
		ModificationType: "error",
		Message:          message,
	}
}

func cabinLabel(c db_models.CabinClass) string {
	words := strings.Split(strings.ToLower(string(c)), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func formatUSD(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	dot := strings.Index(s, ".")
	return insertThousands(s[:dot]) + s[dot:]
}

func formatUSDInt(v int) string {
	return insertThousands(strconv.Itoa(v))
}

func insertThousands(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
