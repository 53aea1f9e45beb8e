package frames

// Well-known NAIF body ids.
const (
	SolarSystemBarycenter int32 = 0
	Mercury               int32 = 1
	Venus                 int32 = 2
	EarthMoonBarycenter   int32 = 3
	MarsBarycenter        int32 = 4
	JupiterBarycenter     int32 = 5
	SaturnBarycenter      int32 = 6
	UranusBarycenter      int32 = 7
	NeptuneBarycenter     int32 = 8
	PlutoBarycenter       int32 = 9
	Sun                   int32 = 10
	Moon                  int32 = 301
	Earth                 int32 = 399
	Mars                  int32 = 499
	Jupiter               int32 = 599
	Saturn                int32 = 699
	Uranus                int32 = 799
	Neptune               int32 = 899
	Pluto                 int32 = 999
)

// Well-known NAIF orientation (frame) ids.
const (
	J2000      int32 = 1
	B1950      int32 = 2
	FK4        int32 = 3
	Galactic   int32 = 13
	MarsIAU    int32 = 16
	EclipJ2000 int32 = 17
	EclipB1950 int32 = 18
	IAUMercury int32 = 199
	IAUVenus   int32 = 299
	IAUMoon    int32 = 301
	IAUEarth   int32 = 399
	IAUMars    int32 = 499
	IAUJupiter int32 = 599
	IAUSaturn  int32 = 699
	IAUUranus  int32 = 799
	IAUNeptune int32 = 899
	ITRF93     int32 = 3000
	MoonPA     int32 = 31000
	MoonME     int32 = 31001
)

// J2000ToEclipJ2000AngleRad is the obliquity rotating J2000 into ECLIPJ2000 about X.
const J2000ToEclipJ2000AngleRad = 0.40909280422232897

// SpeedOfLightKmS is the speed of light in vacuum.
const SpeedOfLightKmS = 299792.458

var bodyNames = map[int32]string{
	SolarSystemBarycenter: "Solar System Barycenter",
	Mercury:               "Mercury",
	Venus:                 "Venus",
	EarthMoonBarycenter:   "Earth-Moon Barycenter",
	MarsBarycenter:        "Mars Barycenter",
	JupiterBarycenter:     "Jupiter Barycenter",
	SaturnBarycenter:      "Saturn Barycenter",
	UranusBarycenter:      "Uranus Barycenter",
	NeptuneBarycenter:     "Neptune Barycenter",
	PlutoBarycenter:       "Pluto Barycenter",
	Sun:                   "Sun",
	Moon:                  "Moon",
	Earth:                 "Earth",
	Mars:                  "Mars",
	Jupiter:               "Jupiter",
	Saturn:                "Saturn",
	Uranus:                "Uranus",
	Neptune:               "Neptune",
	Pluto:                 "Pluto",
}

var orientationNames = map[int32]string{
	J2000:      "J2000",
	B1950:      "B1950",
	FK4:        "FK4",
	Galactic:   "Galactic",
	MarsIAU:    "Mars IAU",
	EclipJ2000: "ECLIPJ2000",
	EclipB1950: "ECLIPB1950",
	IAUMercury: "IAU_MERCURY",
	IAUVenus:   "IAU_VENUS",
	IAUMoon:    "IAU_MOON",
	IAUEarth:   "IAU_EARTH",
	IAUMars:    "IAU_MARS",
	IAUJupiter: "IAU_JUPITER",
	IAUSaturn:  "IAU_SATURN",
	IAUUranus:  "IAU_URANUS",
	IAUNeptune: "IAU_NEPTUNE",
	ITRF93:     "ITRF93",
	MoonPA:     "MOON_PA",
	MoonME:     "MOON_ME",
}

var (
	bodyIDs        = invert(bodyNames)
	orientationIDs = invert(orientationNames)
)

func invert(m map[int32]string) map[string]int32 {
	out := make(map[string]int32, len(m))
	for id, name := range m {
		out[name] = id
	}
	return out
}

// BodyName returns the common name of a body id.
func BodyName(id int32) (string, bool) {
	name, ok := bodyNames[id]
	return name, ok
}

// OrientationName returns the common name of an orientation id.
func OrientationName(id int32) (string, bool) {
	name, ok := orientationNames[id]
	return name, ok
}

// BodyID returns the id of a body by its common name.
func BodyID(name string) (int32, bool) {
	id, ok := bodyIDs[name]
	return id, ok
}

// OrientationID returns the id of an orientation by its common name.
// "ICRF" is accepted as an alias of J2000.
func OrientationID(name string) (int32, bool) {
	if name == "ICRF" {
		return J2000, true
	}
	id, ok := orientationIDs[name]
	return id, ok
}
