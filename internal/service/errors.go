package service

import "errors"

var (
	// ErrInvalidCarID is returned when car ID is empty.
	ErrInvalidCarID = errors.New("invalid car id")

	// ErrInvalidBookingID is returned when booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidPaymentID is returned when payment ID is empty.
	ErrInvalidPaymentID = errors.New("invalid payment id")

	// ErrInvalidUserID is returned when user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidCarName is returned when a car is missing its name or brand.
	ErrInvalidCarName = errors.New("invalid car name")

	// ErrInvalidPricePerDay is returned when a daily price is negative.
	ErrInvalidPricePerDay = errors.New("invalid price per day")

	// ErrInvalidTransmission is returned when a transmission value is unrecognized.
	ErrInvalidTransmission = errors.New("invalid transmission")

	// ErrInvalidSort is returned when a catalog sort key is unrecognized.
	ErrInvalidSort = errors.New("invalid sort")

	// ErrInvalidDateRange is returned when the end date is not strictly after the start date.
	ErrInvalidDateRange = errors.New("end date must be after start date")

	// ErrInvalidCustomerInfo is returned when contact fields are missing.
	ErrInvalidCustomerInfo = errors.New("invalid customer contact info")

	// ErrInvalidPaymentAmount is returned when payment amount is not positive.
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")

	// ErrInvalidPaymentMethod is returned when payment method is unrecognized.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidRole is returned when a role value is unrecognized.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidFuelLevel is returned when a fuel level is outside 0-100.
	ErrInvalidFuelLevel = errors.New("invalid fuel level")

	// ErrInvalidInspectionLocation is returned when an inspection location is empty.
	ErrInvalidInspectionLocation = errors.New("invalid inspection location")

	// ErrInvalidStatusTransition is returned when a booking transition is not
	// allowed from the current status.
	ErrInvalidStatusTransition = errors.New("invalid booking status transition")

	// ErrBookingAlreadyCancelled is returned when cancelling a cancelled booking.
	ErrBookingAlreadyCancelled = errors.New("booking already cancelled")

	// ErrCarUnavailable is returned when the requested dates overlap an
	// existing booking for the same car.
	ErrCarUnavailable = errors.New("car not available for requested dates")

	// ErrCarHasActiveBookings is returned when deleting a car that active
	// bookings still reference.
	ErrCarHasActiveBookings = errors.New("car has active bookings")

	// ErrBookingNotPayable is returned when submitting a payment against a
	// booking that is no longer accepting payments.
	ErrBookingNotPayable = errors.New("booking not accepting payments")

	// ErrOverpayment is returned when a payment exceeds the remaining balance.
	ErrOverpayment = errors.New("payment exceeds remaining balance")

	// ErrPaymentAlreadyVerified is returned when re-verifying a payment that
	// has already been verified or rejected.
	ErrPaymentAlreadyVerified = errors.New("payment already verified")

	// ErrPaymentRequired is returned when recording a pickup before the
	// booking is fully paid.
	ErrPaymentRequired = errors.New("booking not fully paid")

	// ErrPickupAlreadyRecorded is returned when a pickup inspection exists.
	ErrPickupAlreadyRecorded = errors.New("pickup already recorded")

	// ErrPickupNotRecorded is returned when recording a return before pickup.
	ErrPickupNotRecorded = errors.New("pickup not recorded")

	// ErrReturnAlreadyRecorded is returned when a return inspection exists.
	ErrReturnAlreadyRecorded = errors.New("return already recorded")

	// ErrBookingLocked is returned when another transition holds the
	// booking's lock.
	ErrBookingLocked = errors.New("booking is being modified by another request")

	// ErrNotAuthenticated is returned when no identity accompanies a request
	// that requires one.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrAdminRequired is returned when a non-admin attempts an admin-only
	// operation.
	ErrAdminRequired = errors.New("admin role required")

	// ErrNotBookingOwner is returned when a user accesses a booking that is
	// not theirs.
	ErrNotBookingOwner = errors.New("booking belongs to another user")
)
