// Command rosteretl loads team lists and persists them as a normalized
// four-table roster.
package main

import (
	// Register every dialect; db.driver picks one at run time.
	_ "rosteretl/internal/storage/all"
)

func main() {
	Execute()
}
