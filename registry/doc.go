/*
Package registry resolves symbolic index ids to physical index names and key attributes.

Indexes are declared once, when a repository is built, and mirror what the
provisioning stack created. Two forms are accepted:

	global := []registry.IndexDefinition{
	    registry.Shorthand("email"),                              // Member_Email / Sk_Member_Email
	    {ID: "group-slug", PartitionKey: "Group_Slug"},          // explicit attribute names
	}
	local := []registry.IndexDefinition{
	    registry.Shorthand("last-name"),                          // partitionKey / Member_LastName
	}

Resolving an id that was never registered returns a configuration error; it
always signals drift between code and infrastructure and is never retried.
*/
package registry
