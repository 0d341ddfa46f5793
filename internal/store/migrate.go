package store

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// StudyRecordsColumns holds the columns for the "study_records" table.
	StudyRecordsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString, Default: ""},
		{Name: "lemma", Type: field.TypeString},
		{Name: "reading", Type: field.TypeString, Default: ""},
		{Name: "surface", Type: field.TypeString},
		{Name: "correct", Type: field.TypeBool},
		{Name: "context", Type: field.TypeString, Default: ""},
		{Name: "media_src", Type: field.TypeString, Default: ""},
	}
	// StudyRecordsTable holds the schema information for the "study_records" table.
	StudyRecordsTable = &schema.Table{
		Name:       "study_records",
		Columns:    StudyRecordsColumns,
		PrimaryKey: []*schema.Column{StudyRecordsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "studyrecord_lemma",
				Unique:  false,
				Columns: []*schema.Column{StudyRecordsColumns[4]},
			},
			{
				Name:    "studyrecord_timestamp",
				Unique:  false,
				Columns: []*schema.Column{StudyRecordsColumns[2]},
			},
		},
	}

	// RecognitionAttemptsColumns holds the columns for the "recognition_attempts" table.
	RecognitionAttemptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "lemma", Type: field.TypeString},
		{Name: "reading", Type: field.TypeString, Default: ""},
		{Name: "success", Type: field.TypeBool},
	}
	// RecognitionAttemptsTable holds the schema information for the "recognition_attempts" table.
	RecognitionAttemptsTable = &schema.Table{
		Name:       "recognition_attempts",
		Columns:    RecognitionAttemptsColumns,
		PrimaryKey: []*schema.Column{RecognitionAttemptsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "recognitionattempt_lemma_sequence",
				Unique:  false,
				Columns: []*schema.Column{RecognitionAttemptsColumns[3], RecognitionAttemptsColumns[1]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		StudyRecordsTable,
		RecognitionAttemptsTable,
	}
)

// migrate creates or upgrades the tables through ent's Atlas migration engine.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}
