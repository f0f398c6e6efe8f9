/*
Package filter compiles symbolic field constraints into condition expressions.

Every filter expression is seeded with the discriminator clause so that
heterogeneous item collections never leak records of another entity:

	expr, err := filter.Build("Test", map[string]filter.Constraint{
	    "Test_Age":  filter.Between(20, 30),
	    "Test_Name": filter.BeginsWith("Jo"),
	})
	// expr.Expression: entityType = :ent AND Test_Age BETWEEN :aStart AND :aEnd AND begins_with(Test_Name, :b)
	// expr.Bindings:   {":ent": "Test", ":aStart": 20.0, ":aEnd": 30.0, ":b": "Jo"}

Key conditions use the fixed placeholders :pk and :sk (:skStart/:skEnd for ranges).
A constraint that cannot be compiled is a configuration error; no partial
expression is ever returned.
*/
package filter
