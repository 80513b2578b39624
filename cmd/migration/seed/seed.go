package seed

import (
	"time"

	"petshop/config"
	. "petshop/internal/models"
	"petshop/internal/services"
	"petshop/pkg/logger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func date(year int, month time.Month, day int) datatypes.Date {
	return datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	loc, err := config.Location()
	if err != nil {
		return log.Err("failed to load business timezone", err)
	}

	users := []User{
		{
			Name: "Carla Souza", Email: "carla@petshop.dev", Phone: "11987654321",
			Type: RoleWorker, IsAdmin: true,
			Worker: &Worker{Role: WorkerRoleManager, HiredAt: date(2020, time.March, 2)},
		},
		{
			Name: "Davi Lima", Email: "davi@petshop.dev", Phone: "11912345678",
			Type:   RoleWorker,
			Worker: &Worker{Role: WorkerRoleEmployee, HiredAt: date(2023, time.August, 14)},
		},
		{
			Name: "Ana Ribeiro", Email: "ana@petshop.dev", Phone: "1133334444",
			Type: RoleCustomer,
			Customer: &Customer{
				CPF: "52998224725", Birthdate: date(1990, time.May, 20),
				CEP: "01310100", Street: "Avenida Paulista", Number: "1000",
				District: "Bela Vista", City: "São Paulo", State: "SP",
			},
		},
		{
			Name: "Bruno Alves", Email: "bruno@petshop.dev", Phone: "21998887777",
			Type: RoleCustomer,
			Customer: &Customer{
				CPF: "11144477735", Birthdate: date(1985, time.November, 3),
				CEP: "20040002", Street: "Rua da Assembleia", Number: "10",
				District: "Centro", City: "Rio de Janeiro", State: "RJ",
			},
		},
	}

	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			return log.Err("failed to create user", err, "email", users[i].Email)
		}
	}
	carla, davi, ana, bruno := users[0], users[1], users[2], users[3]

	pets := []Pet{
		{Name: "Rex", Breed: "Labrador", Type: PetTypeDog, Birthdate: date(2019, time.January, 10), CustomerID: ana.ID},
		{Name: "Mia", Breed: "Siamês", Type: PetTypeCat, Birthdate: date(2021, time.June, 1), CustomerID: bruno.ID},
		{Name: "Thor", Breed: "Shih Tzu", Type: PetTypeDog, Birthdate: date(2022, time.February, 15), CustomerID: ana.ID, History: "Alérgico a shampoo perfumado"},
	}
	for i := range pets {
		if err := db.Create(&pets[i]).Error; err != nil {
			return log.Err("failed to create pet", err, "name", pets[i].Name)
		}
	}

	now := time.Now().In(loc)
	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 10, 0, 0, 0, loc)
	yesterday := time.Date(now.Year(), now.Month(), now.Day()-1, 14, 0, 0, 0, loc)
	accepted := yesterday.Add(-24 * time.Hour).UTC()
	finished := yesterday.Add(90 * time.Minute).UTC()

	jobs := []Job{
		{Date: tomorrow.UTC(), Bath: true, PetID: pets[0].ID, WorkerID: davi.ID},
		{Date: tomorrow.Add(time.Hour).UTC(), Bath: true, Groom: true, PetID: pets[1].ID, WorkerID: carla.ID, AcceptedAt: &accepted},
		{Date: yesterday.UTC(), Bath: true, PetID: pets[2].ID, WorkerID: davi.ID, AcceptedAt: &accepted, FinishedAt: &finished},
	}
	for i := range jobs {
		if err := db.Create(&jobs[i]).Error; err != nil {
			return log.Err("failed to create job", err, "pet", jobs[i].PetID)
		}
	}

	tokens := services.NewTokenService(config)
	for _, user := range users {
		token, err := tokens.Issue(user.ID)
		if err != nil {
			return log.Err("failed to issue development token", err, "email", user.Email)
		}
		log.Info("Development token", "email", user.Email, "type", user.Type, "token", token)
	}

	log.Info("Seed complete", "users", len(users), "pets", len(pets), "jobs", len(jobs))
	return nil
}
