package db

import (
	"fmt"
	"strconv"

	"github.com/pianoscribe/pianoscribe/constants"
	"github.com/pianoscribe/pianoscribe/model"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

// GetTrackMetadata looks up stored metadata for an uploaded filename.
// Returns nil when no metadata table is configured, the record is
// missing, or the lookup fails. Metadata is best-effort.
func GetTrackMetadata(filename string) *model.TrackMetadata {
	table := constants.GetMetadataTable()
	if table == "" || filename == "" {
		return nil
	}

	config := aws.Config{Region: aws.String(constants.GetMetadataRegion())}
	if endpoint := constants.GetMetadataEndpoint(); endpoint != "" {
		config.Endpoint = &endpoint
	}
	session, err := session.NewSession(&config)
	if err != nil {
		panic("Could not create a new DynamoDB session because " + err.Error())
	}

	client := dynamodb.New(session)
	key := map[string]*dynamodb.AttributeValue{
		"PK": {S: aws.String(filename)},
	}
	res, err := client.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       key,
	})
	if err != nil {
		fmt.Printf("Metadata lookup failed for %v: %v\n", filename, err)
		return nil
	}
	if res.Item == nil {
		return nil
	}

	var meta model.TrackMetadata
	if v := res.Item["Title"]; v != nil && v.S != nil {
		meta.Title = *v.S
	}
	if v := res.Item["Artist"]; v != nil && v.S != nil {
		meta.Artist = *v.S
	}
	if v := res.Item["Release"]; v != nil && v.S != nil {
		meta.Release = *v.S
	}
	if v := res.Item["Year"]; v != nil && v.N != nil {
		year, _ := strconv.ParseUint(*v.N, 10, 32)
		meta.Year = uint(year)
	}
	return &meta
}
