package daf

import "fmt"

// DataType is the segment data type tag stored in every summary.
type DataType int32

// Segment data types defined by the DAF specification.
const (
	Type1ModifiedDifferenceArray          DataType = 1
	Type2ChebyshevTriplet                 DataType = 2
	Type3ChebyshevSextuplet               DataType = 3
	Type5DiscreteStates                   DataType = 5
	Type8LagrangeEqualStep                DataType = 8
	Type9LagrangeUnequalStep              DataType = 9
	Type10SpaceCommandTLE                 DataType = 10
	Type12HermiteEqualStep                DataType = 12
	Type13HermiteUnequalStep              DataType = 13
	Type14ChebyshevUnequalStep            DataType = 14
	Type15PrecessingConics                DataType = 15
	Type17Equinoctial                     DataType = 17
	Type18ESOCHermiteLagrange             DataType = 18
	Type19ESOCPiecewise                   DataType = 19
	Type20ChebyshevDerivative             DataType = 20
	Type21ExtendedModifiedDifferenceArray DataType = 21
)

var dataTypeNames = map[DataType]string{
	Type1ModifiedDifferenceArray:          "Modified Differences",
	Type2ChebyshevTriplet:                 "Chebyshev Triplet",
	Type3ChebyshevSextuplet:               "Chebyshev Sextuplet",
	Type5DiscreteStates:                   "Discrete States",
	Type8LagrangeEqualStep:                "Lagrange Equal Step",
	Type9LagrangeUnequalStep:              "Lagrange Unequal Step",
	Type10SpaceCommandTLE:                 "Space Command TLE",
	Type12HermiteEqualStep:                "Hermite Equal Step",
	Type13HermiteUnequalStep:              "Hermite Unequal Step",
	Type14ChebyshevUnequalStep:            "Chebyshev Unequal Step",
	Type15PrecessingConics:                "Precessing Conics",
	Type17Equinoctial:                     "Equinoctial",
	Type18ESOCHermiteLagrange:             "ESOC Hermite Lagrange",
	Type19ESOCPiecewise:                   "ESOC Piecewise",
	Type20ChebyshevDerivative:             "Chebyshev Derivative",
	Type21ExtendedModifiedDifferenceArray: "Extended Modified Difference Array",
}

// IsKnown reports whether t is defined by the DAF specification.
func (t DataType) IsKnown() bool {
	_, ok := dataTypeNames[t]
	return ok
}

// Supports reports whether segments of type t can be evaluated in a kernel of kind k.
func (t DataType) Supports(k Kind) bool {
	switch k {
	case KindSPK:
		switch t {
		case Type2ChebyshevTriplet, Type3ChebyshevSextuplet,
			Type8LagrangeEqualStep, Type9LagrangeUnequalStep,
			Type12HermiteEqualStep, Type13HermiteUnequalStep,
			Type14ChebyshevUnequalStep:
			return true
		}
	case KindBPC:
		return t == Type2ChebyshevTriplet || t == Type3ChebyshevSextuplet
	}
	return false
}

func (t DataType) String() string {
	if name, ok := dataTypeNames[t]; ok {
		return fmt.Sprintf("%s (type %d)", name, int32(t))
	}
	return fmt.Sprintf("type %d", int32(t))
}
