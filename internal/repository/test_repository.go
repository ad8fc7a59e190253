package repository

import (
	"context"
	"edu_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

// CreateWithQuestions inserts the test and its questions in one transaction.
func (r *TestRepository) CreateWithQuestions(ctx context.Context, test *model.Test) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Questions", "Instructor").Create(test).Error; err != nil {
			return err
		}
		for i := range test.Questions {
			test.Questions[i].TestID = test.ID
			test.Questions[i].Position = i
		}
		if len(test.Questions) == 0 {
			return nil
		}
		return tx.Create(&test.Questions).Error
	})
}

func (r *TestRepository) FindByID(ctx context.Context, id string) (*model.Test, error) {
	var test model.Test
	err := r.DB.WithContext(ctx).
		Preload("Questions", orderedQuestions).
		Preload("Instructor").
		First(&test, "id = ?", id).Error
	return &test, err
}

// TestSummary is a test with derived usage counts.
type TestSummary struct {
	model.Test
	AttemptCount    int64 `json:"attemptCount"`
	AssignmentCount int64 `json:"assignmentCount"`
}

type testCountRow struct {
	TestID string
	Total  int64
}

func (r *TestRepository) ListByInstructor(ctx context.Context, instructorID string) ([]TestSummary, error) {
	db := r.DB.WithContext(ctx)

	var tests []model.Test
	err := db.Preload("Questions", orderedQuestions).
		Where("instructor_id = ?", instructorID).
		Order("created_at desc").
		Find(&tests).Error
	if err != nil {
		return nil, err
	}
	if len(tests) == 0 {
		return []TestSummary{}, nil
	}

	ids := make([]string, len(tests))
	for i, t := range tests {
		ids[i] = t.ID
	}

	attempts, err := r.countByTest(db, &model.TestAttempt{}, ids)
	if err != nil {
		return nil, err
	}
	assignments, err := r.countByTest(db, &model.TestAssignment{}, ids)
	if err != nil {
		return nil, err
	}

	out := make([]TestSummary, len(tests))
	for i, t := range tests {
		out[i] = TestSummary{
			Test:            t,
			AttemptCount:    attempts[t.ID],
			AssignmentCount: assignments[t.ID],
		}
	}
	return out, nil
}

func (r *TestRepository) countByTest(db *gorm.DB, table interface{}, ids []string) (map[string]int64, error) {
	var rows []testCountRow
	err := db.Model(table).
		Select("test_id, COUNT(*) AS total").
		Where("test_id IN ?", ids).
		Group("test_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.TestID] = row.Total
	}
	return counts, nil
}

func (r *TestRepository) UpdateSourceDocument(ctx context.Context, id, url string) error {
	res := r.DB.WithContext(ctx).Model(&model.Test{}).
		Where("id = ?", id).
		Update("source_document_url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
