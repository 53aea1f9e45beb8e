// Package dataset holds the constant datasets an Almanac consults besides
// its kernels: planetary constants (gravitational parameter, shape and the
// pole and prime meridian models of each body) and Euler parameters (fixed
// rotations between two frames).
//
// Datasets are YAML documents with a kind and a list of entries:
//
//	kind: planetary_constants
//	entries:
//	  - id: 399
//	    name: IAU_EARTH
//	    parent_id: 1
//	    mu_km3_s2: 398600.435436
//	    pole_declination: {offset_deg: 90.0, rate_deg: -0.641}
//	    prime_meridian: {offset_deg: 190.147, rate_deg: 360.9856235}
//
// Every document is validated on decode, and a decoded Set is immutable.
package dataset
