package booking

import "hotelbooking/internal/repository"

// Store is the persistence gateway consumed by the booking service.
type Store = repository.BookingStore
