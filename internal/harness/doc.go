// Package harness runs conformance scenarios against CUE schedules.
//
// A scenario names a directory of CUE schedules, picks one schedule, and
// asserts on the conflict report the analyzer produces for it.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: game-update
//	description: "Movement and gravity race on Velocity"
//	specs: ../schedules/game
//	schedule: Update
//	assertions:
//	  - type: conflict
//	    a: movement
//	    b: gravity
//	    components: [Velocity]
//	    ordered: false
//	  - type: compatible
//	    a: gravity
//	    b: render
//	  - type: ambiguity_count
//	    count: 3
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - conflict: two systems conflict, optionally over exactly the listed names
//   - compatible: two systems may run at the same time
//   - ambiguity_count: the number of conflicting pairs with no fixed order
//   - param_error: analysis stops on a conflicting system parameter
//   - warning: some filter warning contains the given text
//
// # Deterministic Testing
//
// Each scenario gets a fresh registry and an in-memory SQLite store. The
// report is written to the store under a sequential run ID and conflict
// assertions read it back, so the persisted form is what gets checked.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/game-update.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, err := range result.Errors {
//	        log.Println(err)
//	    }
//	}
package harness
