package hdrview

const (
	sdrWhiteNits = 203.0
	hlgMaxNits   = 1000.0
	pqMaxNits    = 10000.0
)

const (
	// defaultHeadroom is the gain-map headroom floor when the container
	// declares none.
	defaultHeadroom = 2.0
	// saturationBoost compensates for gamut narrowing during the later
	// color conversion.
	saturationBoost = 1.12
	// midtoneLiftGamma brightens midtones and mildly compresses values
	// above 1.0 in the lifted tone-map mode.
	midtoneLiftGamma = 0.85
	// defaultReferenceWhiteScale stands in for the bundled curve profile
	// when its resource is missing.
	defaultReferenceWhiteScale = hlgMaxNits / sdrWhiteNits
)

// EXIF CustomRendered sentinel marking gain-map-bearing files on cameras
// that omit the auxiliary metadata segments.
const customRenderedGainMap = 3
