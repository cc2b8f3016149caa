package main

import "time"

// nowFunc is swapped in tests to make export filenames deterministic.
var nowFunc = time.Now
