/*
Package tablestore stores several entity types in shared DynamoDB tables,
addressing them by convention-derived table, index and attribute names.

Names are resolved once from short ids: prefix "cc", table "groups" and
entity "group-member" give the table CcGroupsDynamoDbTable, and a global
index "email" on that entity becomes CcGroupsGroupMemberEmailDynamoDbGSI
keyed on GroupMember_Email and Sk_GroupMember_Email. Every record carries
an entityType attribute so one table can hold many entities; reads filter
on it and strip it again.

Basic Usage:

	cfg, err := config.Load("tablestore.yaml")
	if err != nil {
		return err
	}

	store, err := tablestore.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	members, _ := store.Repository("group-member")
	rec, err := members.QueryOne(ctx, "email", "jo@example.com")

	all, err := members.FindAll(ctx, datastore.Query{
		IndexID: "last-name",
		Filters: map[string]filter.Constraint{
			"GroupMember_Handicap": filter.Compare(filter.Le, 12),
		},
	})

The memory backend evaluates the same prepared requests in process and is
meant for tests.
*/
package tablestore
