// Package fracture segments a mesh into a fixed number of disjoint plates
// by growing regions outward from high-stress seeds.
//
// A vertex joins a plate only when the crust between it and an already
// included neighbor is still intact according to a [Predicate]. The default
// predicate, [CrustIsUnfractured], splits the relative displacement of the
// two vertices into a tensile part along the edge and a shear part across
// it, and compares both against material strengths.
//
// Components:
//
//   - [Region]: one plate slot; owns its membership bitset and a frontier
//     of candidate vertices ordered by distance from the seed, ties broken
//     by the smaller vertex id.
//   - [FloodFill]: the single-region growth primitive (Reset, Advance).
//   - [ClaimMask]: the one buffer shared by all regions. A vertex is claimed
//     at most once, by compare-and-set.
//   - [Fracturing]: seeds every region, lets each claim an initial
//     neighborhood, then advances the active regions until every frontier
//     is empty.
//
// Derived queries ([Counts], [Sizes], [Map], [Boundaries]) are computed on
// demand from the regions and never cached.
//
// # Region zero
//
// The reference behavior grows region 0 only while seeding and leaves it
// out of joint convergence; [Map] then represents it by the background
// value 0. This is kept as [PolicyBackgroundReserved], the default.
// [PolicyAllRegions] lets every region compete during convergence.
//
// # Complexity
//
//   - Advance: O(log F + d), F = frontier size, d = degree of the popped vertex.
//   - Growing one region to stability: O(N log N).
//   - Fracture: O(K·N) for seeding plus O(N log N) per region.
//
// # Concurrency
//
// Fracture is synchronous. With [WithParallel] the regions of one
// convergence iteration advance concurrently; claims stay exclusive through
// [ClaimMask.Claim], so plates remain disjoint, but which plate wins a
// contested vertex may vary between runs. The sequential default is fully
// deterministic.
//
// # Example
//
//	f, err := fracture.New(fracture.WithSeedGrowthBudget(30))
//	if err != nil {
//	    return err
//	}
//	regions := f.Initialize(grid, 8)
//	if err := f.Fracture(grid, field, regions); err != nil {
//	    return err
//	}
//	plateMap := fracture.Map(regions, f.Policy())
package fracture
