package model

// Field bounds shared by binding tags and service-level checks.
const (
	ProductNameMaxLength        = 200
	ProductDescriptionMaxLength = 1000

	CartItemQuantityMin = 1
	CartItemQuantityMax = 100

	ReviewRatingMin       = 1
	ReviewRatingMax       = 5
	ReviewCommentMaxLength = 1000

	OrderShippingAddressMaxLength = 200
	OrderFullNameMaxLength        = 100
	OrderPhoneNumberMaxLength     = 20
)
