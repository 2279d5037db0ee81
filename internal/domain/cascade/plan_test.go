package cascade_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/talent-api/internal/domain/cascade"
	"github.com/jhoicas/talent-api/internal/domain/entity"
)

// parents lists, per table, the tables its rows reference.
var parents = map[string][]string{
	cascade.TableJobApplications:          {cascade.TableJobs, cascade.TableUsers, cascade.TableCompanies},
	cascade.TableJobs:                     {cascade.TableUsers, cascade.TableCompanies},
	cascade.TableUserCreationRequests:     {cascade.TableUsers, cascade.TableCompanies},
	cascade.TableEmployeeDeletionRequests: {cascade.TableUsers, cascade.TableCompanies},
	cascade.TableTeams:                    {cascade.TableCompanies},
	cascade.TableEmployerApplications:     {cascade.TableUsers},
	cascade.TableRecruiterCandidates:      {cascade.TableUsers, cascade.TableProfileAllocations},
	cascade.TableProfileAllocations:       {cascade.TableUsers, cascade.TableCompanies},
	cascade.TableReports:                  {cascade.TableUsers},
	cascade.TableUsers:                    {cascade.TableCompanies},
}

func assertChildrenFirst(t *testing.T, steps []cascade.Step) {
	t.Helper()
	firstDelete := map[string]int{}
	for i, s := range steps {
		if s.Action != cascade.Delete {
			continue
		}
		if _, ok := firstDelete[s.Table]; !ok {
			firstDelete[s.Table] = i
		}
	}
	for child, ps := range parents {
		ci, ok := firstDelete[child]
		if !ok {
			continue
		}
		for _, p := range ps {
			if pi, ok := firstDelete[p]; ok {
				assert.Less(t, ci, pi, "%s must be deleted before %s", child, p)
			}
		}
	}
}

func TestCompanyPlan_Order(t *testing.T) {
	steps := cascade.CompanyPlan("root", "c1", []string{"e1", "e2"})
	assertChildrenFirst(t, steps)

	last := steps[len(steps)-1]
	assert.Equal(t, cascade.TableCompanies, last.Table)
	assert.True(t, last.Where.Matches(map[string]string{"id": "c1"}))

	var nullify, users int
	for i, s := range steps {
		if s.Action == cascade.Nullify {
			nullify = i
		}
		if s.Table == cascade.TableUsers && s.Action == cascade.Delete {
			users = i
		}
	}
	assert.Less(t, nullify, users, "manager references are detached before users are removed")
}

func TestSingleUserPlan_Order(t *testing.T) {
	steps := cascade.SingleUserPlan("u1")
	assertChildrenFirst(t, steps)
	for _, s := range steps {
		assert.NotEqual(t, cascade.TableCompanies, s.Table)
		assert.NotEqual(t, cascade.TableTeams, s.Table)
	}
	assert.Equal(t, cascade.TableUsers, steps[len(steps)-1].Table)
}

func TestCompanyPlan_IncludesRootOnce(t *testing.T) {
	steps := cascade.CompanyPlan("root", "c1", []string{"root", "e1"})
	users := steps[len(steps)-2]
	require.Equal(t, cascade.TableUsers, users.Table)
	require.Len(t, users.Where.AnyOf, 1)
	assert.ElementsMatch(t, []string{"root", "e1"}, users.Where.AnyOf[0].Values)
}

func TestPlans_RemoveJobApplicationsBeforeJobs(t *testing.T) {
	for name, steps := range map[string][]cascade.Step{
		"single":  cascade.SingleUserPlan("u1"),
		"company": cascade.CompanyPlan("root", "c1", []string{"root", "e1"}),
	} {
		t.Run(name, func(t *testing.T) {
			apps, jobs := -1, -1
			for i, s := range steps {
				switch s.Table {
				case cascade.TableJobApplications:
					apps = i
				case cascade.TableJobs:
					jobs = i
				}
			}
			require.NotEqual(t, -1, apps)
			require.NotEqual(t, -1, jobs)
			assert.Less(t, apps, jobs)
			assert.Equal(t, cascade.CategoryJobApplications, steps[apps].Category)
		})
	}
}

func TestSingleUserPlan_JobApplicationsByApplicantOrOwner(t *testing.T) {
	steps := cascade.SingleUserPlan("u1")
	apps := steps[0]
	require.Equal(t, cascade.TableJobApplications, apps.Table)
	assert.True(t, apps.Where.Matches(map[string]string{"applicant_id": "u1", "job_owner_id": "x"}))
	assert.True(t, apps.Where.Matches(map[string]string{"applicant_id": "x", "job_owner_id": "u1"}))
	assert.False(t, apps.Where.Matches(map[string]string{"applicant_id": "x", "job_owner_id": "y"}))
}

func TestCompanyPlan_JobApplicationsOfTenant(t *testing.T) {
	steps := cascade.CompanyPlan("root", "c1", []string{"root"})
	apps := steps[0]
	require.Equal(t, cascade.TableJobApplications, apps.Table)
	assert.True(t, apps.Where.Matches(map[string]string{"company_id": "c1", "job_owner_id": "x", "applicant_id": "y"}))
	assert.False(t, apps.Where.Matches(map[string]string{"company_id": "c2", "job_owner_id": "x", "applicant_id": "y"}))
}

func TestPredicate_Matches(t *testing.T) {
	p := cascade.Where("author_id", "a", "b").Or("recipient_id", "a", "b")
	assert.True(t, p.Matches(map[string]string{"author_id": "a", "recipient_id": "z"}))
	assert.True(t, p.Matches(map[string]string{"author_id": "z", "recipient_id": "b"}))
	assert.False(t, p.Matches(map[string]string{"author_id": "z", "recipient_id": "y"}))

	detach := cascade.Where("manager_id", "m").Except("id", "m", "e1")
	assert.True(t, detach.Matches(map[string]string{"id": "outsider", "manager_id": "m"}))
	assert.False(t, detach.Matches(map[string]string{"id": "e1", "manager_id": "m"}))
	assert.False(t, detach.Matches(map[string]string{"id": "outsider", "manager_id": ""}))
}

func TestPredicate_EmptySelectsNothing(t *testing.T) {
	p := cascade.Where("posted_by")
	assert.True(t, p.Empty())
	assert.False(t, p.Matches(map[string]string{"posted_by": "x"}))
	assert.False(t, cascade.Predicate{}.Matches(map[string]string{"id": "x"}))
}

func TestTally(t *testing.T) {
	var s entity.DeletionStats
	cascade.Tally(&s, cascade.CategoryUsers, 4)
	cascade.Tally(&s, cascade.CategoryJobs, 2)
	cascade.Tally(&s, cascade.CategoryJobs, 1)
	cascade.Tally(&s, cascade.CategoryJobApplications, 5)
	assert.Equal(t, int64(4), s.Users)
	assert.Equal(t, int64(3), s.Jobs)
	assert.Equal(t, int64(5), s.JobApplications)
}
