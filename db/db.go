package db

import (
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"

	"github.com/ismscore/scoreconv/constants"
	"github.com/ismscore/scoreconv/model"
)

// GetScoreMetadatas fetches catalog records for up to 10 score keys in one
// batch. Missing keys are simply absent from the result map.
func GetScoreMetadatas(keys []string) map[string]model.ScoreMetadata {
	if len(keys) > 10 {
		panic("Not supposed to pass in more than 10 keys!")
	}

	res := make(map[string]model.ScoreMetadata)

	if len(keys) == 0 {
		return res
	}

	var dbKeys []map[string]*dynamodb.AttributeValue
	for _, key := range keys {
		dbKeys = append(dbKeys, map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(key)},
		})
	}

	endpoint := constants.GetMetadataEndpoint()
	session, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		panic("Could not create a new DynamoDB session because " + err.Error())
	}

	table := constants.GetMetadataTable()
	client := dynamodb.New(session)
	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			table: {Keys: dbKeys},
		},
	}
	dbres, err := client.BatchGetItem(input)
	if err != nil {
		panic("Error from DynamoDB: " + err.Error())
	}

	for _, v := range dbres.Responses[table] {
		var md model.ScoreMetadata
		if v["Year"] != nil && v["Year"].N != nil {
			year, _ := strconv.ParseUint(*v["Year"].N, 10, 32)
			md.Year = uint(year)
		}
		md.Title = stringAttr(v, "Title")
		md.Composer = stringAttr(v, "Composer")
		md.Arranger = stringAttr(v, "Arranger")
		md.Lyricist = stringAttr(v, "Lyricist")
		res[*v["PK"].S] = md
	}

	return res
}

func stringAttr(item map[string]*dynamodb.AttributeValue, name string) string {
	if item[name] == nil || item[name].S == nil {
		return ""
	}
	return *item[name].S
}
