package badger

import "fmt"

// Key prefixes for different data types
const (
	conceptVectorPrefix = "convec"
	mappingPrefix       = "maprec"
)

// makeVectorKey generates a key for a concept vector by system and code.
func makeVectorKey(system, code string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", conceptVectorPrefix, system, code))
}

// makeMappingKey generates a key for a mapping by local system and code.
func makeMappingKey(system, code string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", mappingPrefix, system, code))
}
