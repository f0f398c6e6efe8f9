/*
Package storagemodels defines the data structures shared by every repository variant.

Record:
A flat attribute map. Every persisted record carries partitionKey and sortKey;
child records reuse their parent's partitionKey (item-collection pattern):

	rec := storagemodels.Record{
	    "partitionKey":   "c-1",
	    "sortKey":        "c-1",
	    "Course_Name":    "Maths",
	}

Key:
Addresses one record. An empty SortKey addresses the parent record, whose
sort key equals its partition key.

QueryParams:
A prepared request produced by datastore.Planner. The DynamoDB repository
sends the compiled expressions; the in-memory repository evaluates the
structured constraints carried alongside them.
*/
package storagemodels
