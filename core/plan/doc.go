package plan

// Package plan computes minimum-cost charge schedules. It discretises the
// time between now and the ready-by deadline into charger-sized slots,
// prices each slot from the tariff curve and greedily picks the cheapest
// subset large enough to deliver the requested energy.
